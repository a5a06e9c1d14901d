package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/medrag/internal/model"
)

// Entry renders one transcript entry. User messages are right-aligned and
// bot messages left-aligned within width.
func Entry(e model.Entry, width int) string {
	if e.Kind == model.KindAnalysis {
		return Analysis(e.Analysis, width)
	}

	bubbleWidth := width * 85 / 100
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	if e.Role == model.RoleUser {
		label := roleUserStyle.Render("you")
		text := userBubbleStyle.Render(wrap(e.Text, bubbleWidth-2))
		block := lipgloss.JoinVertical(lipgloss.Right, label, text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	body := wrap(e.Text, bubbleWidth-4)
	if e.Visualization != nil {
		body += "\n" + Gauge(e.Visualization, DefaultGaugeWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		roleBotStyle.Render("medrag"),
		botBubbleStyle.Render(body),
	)
}

// Transcript renders entries in order, separated by blank lines.
func Transcript(entries []model.Entry, width int) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = Entry(e, width)
	}
	return strings.Join(parts, "\n\n")
}

// wrap soft-wraps text to width while keeping explicit line breaks.
func wrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
