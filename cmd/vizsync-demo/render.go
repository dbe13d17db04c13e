package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/view"
)

const (
	mainTrack = 14
	miniTrack = 6
	keyWidth  = 8
)

var (
	accent      = lipgloss.AdaptiveColor{Light: "#005f87", Dark: "#5fd7ff"}
	muted       = lipgloss.AdaptiveColor{Light: "#999", Dark: "#555"}
	borderColor = lipgloss.AdaptiveColor{Light: "#555", Dark: "#555"}

	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(accent)
	emphasizedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimmedStyle     = lipgloss.NewStyle().Foreground(muted)
	focusStyle      = lipgloss.NewStyle().Reverse(true)
	axisStyle       = lipgloss.NewStyle().Underline(true)
	statusStyle     = lipgloss.NewStyle().Foreground(muted)
	panelStyle      = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

func (m *demoModel) View() string {
	if m.c.Pack() == nil {
		return "loading…"
	}

	mainPanel := panelStyle.Render(m.renderView(m.main, mainTrack, m.row, true))
	miniPanel := panelStyle.Render(m.renderView(m.mini, miniTrack, -1, false))
	top := lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, miniPanel)

	limit := 8
	if m.height > 0 {
		limit = max(3, m.height-lipgloss.Height(top)-6)
	}
	table := panelStyle.Render(strings.Join(m.table.Lines(m.main.Dimensions(), m.main.Options(), limit), "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, top, table, m.statusLine(), m.help.View(keys))
}

// renderView draws a binding as a text parallel view: one column per axis,
// one line per drawn row, a marker at the value's position on each axis.
func (m *demoModel) renderView(v *view.Binding, width, focusRow int, showFilters bool) string {
	dims := v.Dimensions()
	opts := v.Options()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s", v.Name(), v.Label())))
	b.WriteByte('\n')

	b.WriteString(strings.Repeat(" ", keyWidth))
	for i, d := range dims {
		label := fit(opts.AxisLabel(d), width)
		if showFilters && i == m.axis {
			label = axisStyle.Render(label)
		}
		b.WriteString(" " + label)
	}
	b.WriteByte('\n')

	if showFilters {
		b.WriteString(strings.Repeat(" ", keyWidth))
		for _, d := range dims {
			b.WriteString(" " + fit(m.filterLabel(v, d), width))
		}
		b.WriteByte('\n')
	}

	for i, r := range v.Visible() {
		line := fit(string(r.Key), keyWidth)
		for _, d := range dims {
			val, _ := r.Value(d)
			low, high := v.Domain(d)
			line += " " + track(val, low, high, width)
		}
		switch {
		case i == focusRow:
			line = focusStyle.Render(line)
		default:
			line = emphasisStyle(v.Emphasis(r)).Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *demoModel) filterLabel(v *view.Binding, dim string) string {
	opts := v.Options()
	for _, f := range v.Filters() {
		if f.Dimension == dim {
			return "[" + opts.FormatValue(f.Low) + "," + opts.FormatValue(f.High) + "]"
		}
	}
	return ""
}

func (m *demoModel) statusLine() string {
	stats := m.metrics.GetStats()
	mode := "replace"
	if m.c.State().AddMode {
		mode = "add"
	}
	play := "paused"
	if m.playing {
		play = "playing"
	}
	parts := []string{
		fmt.Sprintf("%s %d/%d", m.c.Label(), m.c.Index()+1, len(m.c.TimeLabels())),
		"mode " + mode,
		play,
		fmt.Sprintf("cmds %d (avg %s)", stats.CommandCount, formatNanos(stats.CommandAvgNanos)),
		fmt.Sprintf("events %d", stats.PublishCount),
		fmt.Sprintf("stale %d", stats.StaleResponses),
		fmt.Sprintf("dropped %d", stats.DroppedKeys),
		fmt.Sprintf("cache %dKiB", m.rc.MemoryUsage()>>10),
	}
	line := strings.Join(parts, " · ")
	if m.status != "" {
		line += "  " + m.status
	}
	return statusStyle.Render(line)
}

func emphasisStyle(l highlight.Level) lipgloss.Style {
	switch l {
	case highlight.LevelEmphasized:
		return emphasizedStyle
	case highlight.LevelDimmed:
		return dimmedStyle
	default:
		return lipgloss.NewStyle()
	}
}

// track draws v as a marker on a width-cell axis spanning [low, high].
func track(v, low, high float64, width int) string {
	if width <= 0 {
		return ""
	}
	cells := []rune(strings.Repeat("─", width))
	if math.IsNaN(v) || !(high > low) {
		return string(cells)
	}
	pos := int(math.Round((v - low) / (high - low) * float64(width-1)))
	pos = min(max(pos, 0), width-1)
	cells[pos] = '●'
	return string(cells)
}

// fit pads or truncates s to exactly width cells.
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}

func formatNanos(n int64) string {
	switch {
	case n >= 1e6:
		return fmt.Sprintf("%.1fms", float64(n)/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fµs", float64(n)/1e3)
	default:
		return fmt.Sprintf("%dns", n)
	}
}
