package render

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorRed     = lipgloss.Color("#ff5555")
	ColorGreen   = lipgloss.Color("#50fa7b")
	ColorYellow  = lipgloss.Color("#f1fa8c")
	ColorBlue    = lipgloss.Color("#8be9fd")
	ColorPurple  = lipgloss.Color("#bd93f9")
	ColorDim     = lipgloss.Color("#6272a4")
	ColorBgLight = lipgloss.Color("#343746")
	ColorFg      = lipgloss.Color("#f8f8f2")
	ColorOrange  = lipgloss.Color("#ffb86c")
	ColorBorder  = lipgloss.Color("#44475a")
)

// Gauge colors.
var (
	colorAlert   = ColorRed
	colorSuccess = ColorGreen
	colorTrack   = ColorBorder
)

// Style definitions.
var (
	// Analysis panel
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBlue).
			Padding(0, 1)

	panelHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true).
				Padding(0, 0, 1, 0)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorDim).
				Bold(true)

	summaryTextStyle = lipgloss.NewStyle().
				Foreground(ColorFg)

	attentionStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	borderlineStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	normalStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	tableTitleStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	tableCountStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorDim).
				Bold(true).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Padding(0, 1)

	tableValueStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true).
			Padding(0, 1)

	tableRangeStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Italic(true).
			Padding(0, 1)

	// Gauge
	gaugeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	gaugeTitleStyle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Bold(true)

	gaugeValueStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Bold(true)

	gaugeScaleStyle = lipgloss.NewStyle().
			Foreground(ColorDim)

	// Transcript bubbles
	userBubbleStyle = lipgloss.NewStyle().
			Foreground(ColorFg).
			Background(ColorBgLight).
			Padding(0, 1)

	botBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Foreground(ColorFg).
			Padding(0, 1)

	roleUserStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	roleBotStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)
)
