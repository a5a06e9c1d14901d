// Package model defines the core data types shared across medrag.
package model

import (
	"fmt"
	"os"
	"path/filepath"
)

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Kind distinguishes plain text entries from embedded analysis panels.
type Kind string

const (
	KindText     Kind = "text"
	KindAnalysis Kind = "analysis"
)

// Status is the backend's classification of a single metric.
type Status string

const (
	StatusNormal Status = "Normal"
	StatusHigh   Status = "High"
	StatusLow    Status = "Low"
)

// Alert reports whether the status should be shown in the alert color.
// Anything other than High or Low, including unknown values, is not an alert.
func (s Status) Alert() bool {
	return s == StatusHigh || s == StatusLow
}

// Metric is one row of the extracted report data. All fields are display
// strings exactly as the backend produced them.
type Metric struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	NormalRange string `json:"normal_range"`
}

// AnalysisResult is the structured extraction produced once per uploaded file.
type AnalysisResult struct {
	Summary       string   `json:"summary"`
	RiskAreas     []string `json:"risk_areas"`
	ModerateAreas []string `json:"moderate_areas"`
	HealthyAreas  []string `json:"healthy_areas"`
	AllMetrics    []Metric `json:"all_metrics"`

	// Raw is the payload the result was decoded from.
	Raw string `json:"-"`
}

// GaugeDatum describes a single metric to visualize as a gauge.
type GaugeDatum struct {
	Metric string   `json:"metric"`
	Value  float64  `json:"value"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Unit   string   `json:"unit"`
	Status Status   `json:"status"`
}

// EffectiveMin returns the lower end of the scale, 0 when absent.
func (g GaugeDatum) EffectiveMin() float64 {
	if g.Min == nil {
		return 0
	}
	return *g.Min
}

// EffectiveMax returns the upper end of the scale. An absent or zero max
// falls back to value × 1.5.
func (g GaugeDatum) EffectiveMax() float64 {
	if g.Max == nil || *g.Max == 0 {
		return g.Value * 1.5
	}
	return *g.Max
}

// Fraction returns how much of the arc is filled. It is not clamped: values
// outside [min, max] produce fractions outside [0, 1].
func (g GaugeDatum) Fraction() float64 {
	lo, hi := g.EffectiveMin(), g.EffectiveMax()
	if hi == lo {
		return 0
	}
	return (g.Value - lo) / (hi - lo)
}

// Entry is one item in the chat transcript.
type Entry struct {
	Role          Role            `json:"role"`
	Kind          Kind            `json:"kind"`
	Text          string          `json:"text,omitempty"`
	Analysis      *AnalysisResult `json:"data,omitempty"`
	Visualization *GaugeDatum     `json:"visualization,omitempty"`
}

// UserText returns a user text entry.
func UserText(text string) Entry {
	return Entry{Role: RoleUser, Kind: KindText, Text: text}
}

// BotText returns a bot text entry with no visualization.
func BotText(text string) Entry {
	return Entry{Role: RoleBot, Kind: KindText, Text: text}
}

// BotAnswer returns a bot text entry carrying an optional gauge.
func BotAnswer(text string, viz *GaugeDatum) Entry {
	return Entry{Role: RoleBot, Kind: KindText, Text: text, Visualization: viz}
}

// BotAnalysis returns an entry embedding the analysis panel. The result is
// referenced, not copied.
func BotAnalysis(a *AnalysisResult) Entry {
	return Entry{Role: RoleBot, Kind: KindAnalysis, Analysis: a}
}

// Document is a file selected for upload.
type Document struct {
	Name string
	Data []byte
}

// LoadDocument reads a file from disk into a Document named after its base name.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Document{Name: filepath.Base(path), Data: data}, nil
}

// AnalyzeReply is the typed result of a successful analyze call.
type AnalyzeReply struct {
	SessionID string
	Result    *AnalysisResult
}

// ChatReply is the typed result of a successful chat call.
type ChatReply struct {
	Answer        string      `json:"answer"`
	Visualization *GaugeDatum `json:"visualization,omitempty"`
}
