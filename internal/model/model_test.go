package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func ptr(f float64) *float64 { return &f }

func TestStatusAlert(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusNormal, false},
		{StatusHigh, true},
		{StatusLow, true},
		{Status("Borderline"), false},
		{Status(""), false},
	}
	for _, tt := range tests {
		if got := tt.status.Alert(); got != tt.want {
			t.Errorf("Status(%q).Alert() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestGaugeDefaults(t *testing.T) {
	g := GaugeDatum{Metric: "Cholesterol", Value: 180, Status: StatusHigh}
	if got := g.EffectiveMin(); got != 0 {
		t.Errorf("EffectiveMin = %v, want 0", got)
	}
	if got := g.EffectiveMax(); got != 270 {
		t.Errorf("EffectiveMax = %v, want 270", got)
	}

	g.Max = ptr(0)
	if got := g.EffectiveMax(); got != 270 {
		t.Errorf("EffectiveMax with zero max = %v, want 270", got)
	}
}

func TestGaugeFraction(t *testing.T) {
	tests := []struct {
		name string
		g    GaugeDatum
		want float64
	}{
		{"half", GaugeDatum{Value: 50, Min: ptr(0), Max: ptr(100)}, 0.5},
		{"default max", GaugeDatum{Value: 180}, 180.0 / 270.0},
		{"offset min", GaugeDatum{Value: 75, Min: ptr(50), Max: ptr(100)}, 0.5},
		{"over range", GaugeDatum{Value: 150, Max: ptr(100)}, 1.5},
		{"degenerate", GaugeDatum{Value: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Fraction(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Fraction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeAnalysis(t *testing.T) {
	raw := `{"summary":"ok","risk_areas":[],"moderate_areas":[],"healthy_areas":["glucose"],"all_metrics":[{"name":"Glucose","value":"90","unit":"mg/dL","normal_range":"70 - 100"}]}`
	a, err := DecodeAnalysis(raw)
	if err != nil {
		t.Fatalf("DecodeAnalysis: %v", err)
	}
	if a.Summary != "ok" {
		t.Errorf("summary = %q", a.Summary)
	}
	if len(a.HealthyAreas) != 1 || a.HealthyAreas[0] != "glucose" {
		t.Errorf("healthy_areas = %v", a.HealthyAreas)
	}
	if len(a.AllMetrics) != 1 || a.AllMetrics[0].NormalRange != "70 - 100" {
		t.Errorf("all_metrics = %+v", a.AllMetrics)
	}
	if a.Raw != raw {
		t.Error("expected raw payload to be kept")
	}
}

func TestDecodeAnalysisMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "{not json", `["a"]`} {
		_, err := DecodeAnalysis(raw)
		if !errors.Is(err, ErrMalformedPayload) {
			t.Errorf("DecodeAnalysis(%q) err = %v, want ErrMalformedPayload", raw, err)
		}
	}
}

func TestEntryConstructors(t *testing.T) {
	a := &AnalysisResult{Summary: "x"}
	e := BotAnalysis(a)
	if e.Role != RoleBot || e.Kind != KindAnalysis || e.Analysis != a {
		t.Errorf("BotAnalysis = %+v", e)
	}

	viz := &GaugeDatum{Metric: "LDL", Value: 90}
	e = BotAnswer("fine", viz)
	if e.Kind != KindText || e.Visualization != viz || e.Text != "fine" {
		t.Errorf("BotAnswer = %+v", e)
	}

	if UserText("hi").Role != RoleUser {
		t.Error("UserText should have user role")
	}
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if doc.Name != "report.pdf" {
		t.Errorf("Name = %q", doc.Name)
	}
	if string(doc.Data) != "%PDF-1.4" {
		t.Errorf("Data = %q", doc.Data)
	}

	if _, err := LoadDocument(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
