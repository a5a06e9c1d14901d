package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/medrag/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(render.ColorFg).
			Background(render.ColorBgLight).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(render.ColorDim).
			Background(render.ColorBgLight)

	inputAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(render.ColorBorder).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(render.ColorBgLight).
			Background(render.ColorBlue).
			Bold(true).
			Padding(0, 2)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(render.ColorDim).
				Background(render.ColorBgLight).
				Padding(0, 2)

	selectedFileStyle = lipgloss.NewStyle().
				Foreground(render.ColorGreen)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(render.ColorRed)

	busyStyle = lipgloss.NewStyle().
			Foreground(render.ColorBlue)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(render.ColorFg).
			Background(render.ColorBgLight).
			Padding(0, 1)

	rawHeaderStyle = lipgloss.NewStyle().
			Foreground(render.ColorPurple).
			Bold(true).
			Padding(0, 0, 1, 0)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(render.ColorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	helpBarStyle = lipgloss.NewStyle().
			Foreground(render.ColorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(render.ColorYellow)
)
