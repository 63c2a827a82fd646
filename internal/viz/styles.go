package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a Theme.
type styles struct {
	panel    lipgloss.Style
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	active   lipgloss.Style
	graph    lipgloss.Style
	help     lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	failed   lipgloss.Style
	settled  lipgloss.Style
	sparkLow lipgloss.Style
	sparkMid lipgloss.Style
	sparkHi  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		active:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		graph:    lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		help:     lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		failed:   lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		settled:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		sparkLow: lipgloss.NewStyle().Foreground(t.Success),
		sparkMid: lipgloss.NewStyle().Foreground(t.Warning),
		sparkHi:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders the magnitude of the last width values. Large values
// are drawn in the error color so saturated effort stands out.
func (s styles) sparkline(values []float64, width int) string {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	peak := 0.0
	for _, v := range values {
		if a := abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := abs(v) / peak
		c := string(sparkChars[min(int(norm*float64(len(sparkChars)-1)), len(sparkChars)-1)])
		switch {
		case norm > 0.7:
			b.WriteString(s.sparkHi.Render(c))
		case norm > 0.3:
			b.WriteString(s.sparkMid.Render(c))
		default:
			b.WriteString(s.sparkLow.Render(c))
		}
	}
	return b.String()
}

// gainBar draws value relative to twice its starting value.
func gainBar(value, initial float64, width int) string {
	ratio := 0.0
	if initial != 0 {
		ratio = value / (2 * initial)
	}
	ratio = max(0, min(1, ratio))
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
