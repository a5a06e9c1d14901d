package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload is returned when a backend payload cannot be decoded.
var ErrMalformedPayload = errors.New("malformed payload")

// DecodeAnalysis decodes the serialized analysis carried in the analyze
// response's "analysis" field.
func DecodeAnalysis(raw string) (*AnalysisResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty analysis", ErrMalformedPayload)
	}

	var a *AnalysisResult
	if err := json.Unmarshal([]byte(trimmed), &a); err != nil {
		return nil, fmt.Errorf("%w: decoding analysis: %v", ErrMalformedPayload, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: null analysis", ErrMalformedPayload)
	}
	a.Raw = trimmed
	return a, nil
}
