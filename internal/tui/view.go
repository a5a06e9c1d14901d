package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/medrag/internal/chat"
	"github.com/sprite-ai/medrag/internal/render"
)

const (
	headerHeight    = 1
	statusBarHeight = 1
)

func (m Model) inputAreaHeight() int {
	if m.ctrl.Mode() == chat.ModeUpload {
		return pickerRows + 4 // picker + selection line + borders
	}
	return 3
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	if m.showRaw {
		body = m.renderRaw()
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := "✚ MedRAG AI"
	sub := subtitleStyle.Render("  Private Local Analysis")
	return headerStyle.Width(m.width).Render(title + sub)
}

func (m Model) renderInput() string {
	inner := m.width - 4
	if m.ctrl.Mode() == chat.ModeUpload {
		return inputAreaStyle.Width(m.width - 2).Render(m.renderUpload(inner))
	}
	return inputAreaStyle.Width(m.width - 2).Render(m.renderChatInput(inner))
}

func (m Model) renderUpload(width int) string {
	var status string
	switch {
	case m.selectErr != "":
		status = errorTextStyle.Render(m.selectErr)
	case m.selected != nil:
		status = selectedFileStyle.Render("Selected: " + m.selected.Name)
	default:
		status = helpBarStyle.Render("Choose your medical report (PDF) and press enter")
	}

	btn := buttonDisabledStyle.Render("a Analyze")
	if m.ctrl.CanAnalyze(m.selected != nil) {
		btn = buttonStyle.Render("a Analyze")
	}
	if m.ctrl.Analyzing() {
		btn = buttonDisabledStyle.Render(m.spinner.View() + "Analyze")
	}

	gap := width - lipgloss.Width(status) - lipgloss.Width(btn)
	if gap < 1 {
		gap = 1
	}
	line := status + strings.Repeat(" ", gap) + btn

	return lipgloss.JoinVertical(lipgloss.Left, m.picker.View(), line)
}

func (m Model) renderChatInput(width int) string {
	btn := buttonStyle.Render("Send")
	if !m.ctrl.CanSend() {
		btn = buttonDisabledStyle.Render("Send")
	}
	field := m.input.View()
	gap := width - lipgloss.Width(field) - lipgloss.Width(btn)
	if gap < 1 {
		gap = 1
	}
	return field + strings.Repeat(" ", gap) + btn
}

func (m Model) renderRaw() string {
	var b strings.Builder
	b.WriteString(rawHeaderStyle.Render("Raw analysis payload"))
	b.WriteByte('\n')

	a := m.ctrl.LatestAnalysis()
	if a == nil || a.Raw == "" {
		b.WriteString(helpBarStyle.Render("No analysis yet."))
	} else {
		b.WriteString(render.JSON(a.Raw))
	}

	return lipgloss.NewStyle().
		Width(m.viewport.Width).
		Height(m.viewport.Height).
		MaxHeight(m.viewport.Height).
		Render(b.String())
}

func (m Model) renderStatusBar() string {
	left := " no session"
	if id := m.ctrl.SessionID(); id != "" {
		left = " session " + id
	}
	left += fmt.Sprintf("  %d messages", m.ctrl.Len())

	right := fmt.Sprintf("%s  ctrl+t raw  ctrl+c quit ", m.ctrl.Mode())
	if m.ctrl.Mode() == chat.ModeUpload {
		right = fmt.Sprintf("%s  ? help  q quit ", m.ctrl.Mode())
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(helpTitleStyle.Render("medrag — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k ↓/j", "Move in file picker"},
		{"enter", "Open directory / select file"},
		{"a", "Analyze selected file"},
		{"enter", "Send question (chat mode)"},
		{"pgup/pgdn", "Scroll conversation"},
		{"ctrl+t", "Toggle raw analysis payload"},
		{"?", "Toggle this help"},
		{"q / ctrl+c", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
