// Package client talks to the report analysis backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sprite-ai/medrag/internal/model"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 512

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Code, e.Body)
}

// Client is the backend HTTP client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a whole-request timeout. Zero keeps the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type analyzeResponse struct {
	SessionID string `json:"session_id"`
	Analysis  string `json:"analysis"`
}

// Analyze uploads doc as multipart field "file" and decodes the structured
// analysis from the response.
func (c *Client) Analyze(ctx context.Context, doc model.Document) (*model.AnalyzeReply, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", doc.Name)
	if err != nil {
		return nil, fmt.Errorf("analyze: building form: %w", err)
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, fmt.Errorf("analyze: building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("analyze: building form: %w", err)
	}

	var resp analyzeResponse
	if err := c.post(ctx, "analyze", "/analyze", mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}

	if resp.SessionID == "" {
		return nil, fmt.Errorf("analyze: %w: missing session_id", model.ErrMalformedPayload)
	}

	result, err := model.DecodeAnalysis(resp.Analysis)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	return &model.AnalyzeReply{SessionID: resp.SessionID, Result: result}, nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// Chat sends a query scoped to sessionID.
func (c *Client) Chat(ctx context.Context, sessionID, query string) (*model.ChatReply, error) {
	payload, err := json.Marshal(chatRequest{SessionID: sessionID, Query: query})
	if err != nil {
		return nil, fmt.Errorf("chat: encoding request: %w", err)
	}

	var reply model.ChatReply
	if err := c.post(ctx, "chat", "/chat", "application/json", bytes.NewReader(payload), &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend request failed", "op", op, "request_id", reqID, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"op", op,
		"request_id", reqID,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: decoding response: %v", op, model.ErrMalformedPayload, err)
	}
	return nil
}
