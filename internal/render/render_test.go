package render

import (
	"strings"
	"testing"

	"github.com/sprite-ai/medrag/internal/model"
)

func ptr(f float64) *float64 { return &f }

func countCells(grid [][]cell) (filled, track int) {
	for _, row := range grid {
		for _, c := range row {
			switch c {
			case cellFilled:
				filled++
			case cellTrack:
				track++
			}
		}
	}
	return filled, track
}

func TestArcGridHalf(t *testing.T) {
	d := model.GaugeDatum{Value: 50, Min: ptr(0), Max: ptr(100), Status: model.StatusNormal}
	filled, track := countCells(arcGrid(d.Fraction(), 28, 7))
	if filled == 0 || filled != track {
		t.Errorf("filled %d, track %d: want an even split", filled, track)
	}
}

func TestArcGridBounds(t *testing.T) {
	filled, track := countCells(arcGrid(0, 28, 7))
	if filled != 0 || track == 0 {
		t.Errorf("empty gauge: filled %d, track %d", filled, track)
	}

	// Out-of-range values draw a full arc rather than overflowing.
	filled, track = countCells(arcGrid(1.5, 28, 7))
	if track != 0 || filled == 0 {
		t.Errorf("overfull gauge: filled %d, track %d", filled, track)
	}
}

func TestGaugeColor(t *testing.T) {
	tests := []struct {
		status model.Status
		want   string
	}{
		{model.StatusNormal, string(colorSuccess)},
		{model.StatusHigh, string(colorAlert)},
		{model.StatusLow, string(colorAlert)},
		{model.Status("Borderline"), string(colorSuccess)},
	}
	for _, tt := range tests {
		if got := string(GaugeColor(tt.status)); got != tt.want {
			t.Errorf("GaugeColor(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestStatusLabelColor(t *testing.T) {
	tests := []struct {
		status model.Status
		want   string
	}{
		{model.StatusNormal, string(colorSuccess)},
		{model.StatusHigh, string(colorAlert)},
		{model.StatusLow, string(colorAlert)},
		{model.Status("Borderline"), string(colorAlert)},
		{model.Status(""), string(colorAlert)},
	}
	for _, tt := range tests {
		if got := string(StatusLabelColor(tt.status)); got != tt.want {
			t.Errorf("StatusLabelColor(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestGaugeRender(t *testing.T) {
	if Gauge(nil, 28) != "" {
		t.Error("nil datum should render nothing")
	}

	out := Gauge(&model.GaugeDatum{Metric: "Cholesterol", Value: 180, Unit: "mg/dL", Status: model.StatusHigh}, 28)
	for _, want := range []string{"CHOLESTEROL", "180", "mg/dL", "270", "High", "█"} {
		if !strings.Contains(out, want) {
			t.Errorf("gauge missing %q:\n%s", want, out)
		}
	}
}

func TestLists(t *testing.T) {
	a := &model.AnalysisResult{
		RiskAreas:    []string{},
		HealthyAreas: []string{"glucose", "sodium"},
	}
	lists := Lists(a)
	if len(lists) != 3 {
		t.Fatalf("expected 3 lists, got %d", len(lists))
	}
	if lists[0].Title != "Attention" || len(lists[0].Items) != 0 {
		t.Errorf("attention = %+v", lists[0])
	}
	if lists[1].Title != "Borderline" || len(lists[1].Items) != 0 {
		t.Errorf("borderline = %+v", lists[1])
	}
	normal := lists[2]
	if normal.Title != "Normal" || len(normal.Items) != 2 || normal.Items[0] != "glucose" || normal.Items[1] != "sodium" {
		t.Errorf("normal = %+v", normal)
	}

	if Lists(nil) != nil {
		t.Error("nil analysis should have no lists")
	}
}

func TestAnalysisRender(t *testing.T) {
	if Analysis(nil, 80) != "" {
		t.Error("nil analysis should render nothing")
	}

	a := &model.AnalysisResult{
		Summary:      "Mostly fine.",
		RiskAreas:    []string{"LDL high"},
		HealthyAreas: []string{"glucose"},
		AllMetrics: []model.Metric{
			{Name: "LDL", Value: "160", Unit: "mg/dL", NormalRange: "< 100"},
			{Name: "HbA1c", Value: "5.2", Unit: "%", NormalRange: "4 - 5.6"},
			{Name: "TSH", Value: "2.1", Unit: "mIU/L", NormalRange: "N/A"},
		},
	}
	out := Analysis(a, 100)
	for _, want := range []string{
		"Medical Report Analysis", "EXECUTIVE SUMMARY", "Mostly fine.",
		"Attention", "Borderline", "Normal", "LDL high", "glucose",
		"Detailed Report Data", MetricsCaption(3), "HbA1c", "mIU/L", "4 - 5.6",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q", want)
		}
	}
}

func TestAnalysisOmitsEmptyTable(t *testing.T) {
	out := Analysis(&model.AnalysisResult{Summary: "ok"}, 80)
	if strings.Contains(out, "Detailed Report Data") {
		t.Error("table should be omitted without metrics")
	}
}

func TestHighlightLinesJSON(t *testing.T) {
	src := "{\n  \"summary\": \"ok\",\n  \"n\": 3\n}"
	lines := HighlightLines("json", src)
	want := strings.Split(src, "\n")
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i].Plain() != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i].Plain(), want[i])
		}
	}
}

func TestHighlightLinesUnknownLexer(t *testing.T) {
	lines := HighlightLines("no-such-lexer-xyz", "a\nb")
	if len(lines) != 2 || lines[1].Plain() != "b" {
		t.Errorf("expected plain passthrough, got %+v", lines)
	}
}

func TestJSON(t *testing.T) {
	out := JSON(`{"summary":"ok"}`)
	if !strings.Contains(out, `"summary"`) || !strings.Contains(out, "\n") {
		t.Errorf("expected indented JSON, got %q", out)
	}
	if got := IndentJSON("not json"); got != "not json" {
		t.Errorf("IndentJSON passthrough = %q", got)
	}
}

func TestEntryRender(t *testing.T) {
	user := Entry(model.UserText("Is my cholesterol okay?"), 80)
	if !strings.Contains(user, "Is my cholesterol okay?") || !strings.Contains(user, "you") {
		t.Errorf("user entry = %q", user)
	}

	viz := &model.GaugeDatum{Metric: "LDL", Value: 90, Status: model.StatusNormal}
	bot := Entry(model.BotAnswer("Yes", viz), 80)
	if !strings.Contains(bot, "Yes") || !strings.Contains(bot, "LDL") {
		t.Errorf("bot entry = %q", bot)
	}

	panel := Entry(model.BotAnalysis(&model.AnalysisResult{Summary: "ok"}), 80)
	if !strings.Contains(panel, "Medical Report Analysis") {
		t.Error("analysis entry should render the panel")
	}
}

func TestTranscript(t *testing.T) {
	out := Transcript([]model.Entry{model.BotText("first"), model.UserText("second")}, 60)
	if strings.Index(out, "first") > strings.Index(out, "second") {
		t.Error("entries should render in order")
	}
}
