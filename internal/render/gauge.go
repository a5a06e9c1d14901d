package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/medrag/internal/model"
)

// DefaultGaugeWidth is the arc width in cells used when the caller has no
// preference.
const DefaultGaugeWidth = 28

const (
	minGaugeWidth = 12
	gaugeInner    = 0.55 // inner radius as a fraction of the outer radius
)

type cell uint8

const (
	cellEmpty cell = iota
	cellFilled
	cellTrack
)

// GaugeColor maps a status to the arc fill color.
func GaugeColor(s model.Status) lipgloss.Color {
	if s.Alert() {
		return colorAlert
	}
	return colorSuccess
}

// StatusLabelColor colors the status text under the gauge. Only an exact
// Normal reads as healthy; anything else, unknown labels included, is red.
func StatusLabelColor(s model.Status) lipgloss.Color {
	if s == model.StatusNormal {
		return colorSuccess
	}
	return colorAlert
}

// arcGrid lays out a semicircular ring on a cols × rows grid, centered on the
// bottom edge. Cells are filled left to right up to frac.
func arcGrid(frac float64, cols, rows int) [][]cell {
	frac = math.Max(0, math.Min(1, frac))
	grid := make([][]cell, rows)
	half := float64(cols) / 2
	for r := 0; r < rows; r++ {
		grid[r] = make([]cell, cols)
		y := (float64(rows) - (float64(r) + 0.5)) / float64(rows)
		for c := 0; c < cols; c++ {
			x := (float64(c) + 0.5 - half) / half
			d := math.Hypot(x, y)
			if d < gaugeInner || d > 1 {
				continue
			}
			pos := 1 - math.Atan2(y, x)/math.Pi // 0 at the left end, 1 at the right
			if pos <= frac {
				grid[r][c] = cellFilled
			} else {
				grid[r][c] = cellTrack
			}
		}
	}
	return grid
}

// Gauge renders a metric as a semicircular gauge. A nil datum renders nothing.
func Gauge(d *model.GaugeDatum, width int) string {
	if d == nil {
		return ""
	}
	if width < minGaugeWidth {
		width = minGaugeWidth
	}
	rows := width / 4
	if rows < 3 {
		rows = 3
	}

	fill := lipgloss.NewStyle().Foreground(GaugeColor(d.Status))
	track := lipgloss.NewStyle().Foreground(colorTrack)

	var b strings.Builder
	b.WriteString(gaugeTitleStyle.Render(strings.ToUpper(d.Metric)))
	b.WriteByte('\n')

	for _, row := range arcGrid(d.Fraction(), width, rows) {
		b.WriteString(renderRow(row, fill, track))
		b.WriteByte('\n')
	}

	value := gaugeValueStyle.Render(formatNumber(d.Value))
	if d.Unit != "" {
		value += " " + gaugeScaleStyle.Render(d.Unit)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, value))
	b.WriteByte('\n')

	lo := gaugeScaleStyle.Render(formatNumber(d.EffectiveMin()))
	hi := gaugeScaleStyle.Render(formatNumber(d.EffectiveMax()))
	status := lipgloss.NewStyle().Foreground(StatusLabelColor(d.Status)).Render(string(d.Status))
	b.WriteString(spread(width, lo, status, hi))

	return gaugeBoxStyle.Render(b.String())
}

// renderRow styles consecutive runs of equal cells together.
func renderRow(row []cell, fill, track lipgloss.Style) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		n := j - i
		switch row[i] {
		case cellFilled:
			b.WriteString(fill.Render(strings.Repeat("█", n)))
		case cellTrack:
			b.WriteString(track.Render(strings.Repeat("█", n)))
		default:
			b.WriteString(strings.Repeat(" ", n))
		}
		i = j
	}
	return b.String()
}

// spread places left, middle and right within width.
func spread(width int, left, mid, right string) string {
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	gap := width - lw - mw - rw
	if gap < 2 {
		return left + " " + mid + " " + right
	}
	g1 := gap / 2
	return left + strings.Repeat(" ", g1) + mid + strings.Repeat(" ", gap-g1) + right
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
