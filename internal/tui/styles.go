package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/forcegraph/internal/sim"
)

var (
	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	popupPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff7f0e")).
			Padding(0, 1)

	title   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	edge    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	free    = lipgloss.NewStyle().Foreground(lipgloss.Color("#69b3a2"))
	pinned  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff7f0e"))
	focused = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff00ff"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	bad     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4466"))

	stateStyles = map[sim.State]lipgloss.Style{
		sim.Cold:    dim,
		sim.Running: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		sim.Settled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00aaff")),
		sim.Stopped: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4466")),
	}

	sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
)

func stateBadge(s sim.State) string {
	return stateStyles[s].Render("● " + s.String())
}

// sparkline draws the last width values scaled to their own range.
func sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return dim.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return free.Render(b.String())
}
