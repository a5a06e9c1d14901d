// Package render turns transcript data into styled terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sprite-ai/medrag/internal/model"
)

// ListSection is one of the three categorized finding lists.
type ListSection struct {
	Title string
	Items []string
	style lipgloss.Style
}

// Lists returns the Attention, Borderline and Normal sections in that order,
// each preserving input order. Absent lists come back empty.
func Lists(a *model.AnalysisResult) []ListSection {
	if a == nil {
		return nil
	}
	return []ListSection{
		{Title: "Attention", Items: cloneItems(a.RiskAreas), style: attentionStyle},
		{Title: "Borderline", Items: cloneItems(a.ModerateAreas), style: borderlineStyle},
		{Title: "Normal", Items: cloneItems(a.HealthyAreas), style: normalStyle},
	}
}

func cloneItems(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// MetricsCaption is the live row count shown above the metrics table.
func MetricsCaption(n int) string {
	return fmt.Sprintf("%d metrics extracted", n)
}

// Analysis renders the analysis panel. A nil result renders nothing.
func Analysis(a *model.AnalysisResult, width int) string {
	if a == nil {
		return ""
	}
	if width < 30 {
		width = 30
	}
	inner := width - 4 // border + padding

	var sections []string
	sections = append(sections, panelHeaderStyle.Render("✚ Medical Report Analysis"))

	sections = append(sections,
		sectionTitleStyle.Render("EXECUTIVE SUMMARY")+"\n"+
			summaryTextStyle.Width(inner).Render(a.Summary))

	sections = append(sections, renderLists(Lists(a), inner))

	if len(a.AllMetrics) > 0 {
		sections = append(sections, renderMetrics(a.AllMetrics, inner))
	}

	return panelStyle.Width(width - 2).Render(strings.Join(sections, "\n\n"))
}

func renderLists(lists []ListSection, width int) string {
	cols := make([]string, len(lists))
	colWidth := width
	sideBySide := width >= 72
	if sideBySide {
		colWidth = (width - 2*(len(lists)-1)) / len(lists)
	}

	for i, l := range lists {
		var b strings.Builder
		b.WriteString(l.style.Bold(true).Render(l.Title))
		for _, item := range l.Items {
			b.WriteByte('\n')
			b.WriteString(l.style.Render("• " + item))
		}
		cols[i] = lipgloss.NewStyle().Width(colWidth).Render(b.String())
	}

	if !sideBySide {
		return strings.Join(cols, "\n\n")
	}

	parts := make([]string, 0, 2*len(cols)-1)
	for i, c := range cols {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderMetrics(metrics []model.Metric, width int) string {
	caption := MetricsCaption(len(metrics))
	title := tableTitleStyle.Render("Detailed Report Data")
	gap := width - lipgloss.Width(title) - lipgloss.Width(caption)
	if gap < 1 {
		gap = 1
	}
	header := title + strings.Repeat(" ", gap) + tableCountStyle.Render(caption)

	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		rows = append(rows, []string{m.Name, m.Value, m.Unit, m.NormalRange})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers("TEST NAME", "RESULT", "UNITS", "NORMAL RANGE").
		Rows(rows...).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 1:
				return tableValueStyle
			case col == 3:
				return tableRangeStyle
			default:
				return tableCellStyle
			}
		})

	return header + "\n" + t.String()
}
