package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hburn/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx]) //nolint:gosec // bounds checked above
	}

	return style.Render(buf.String())
}

// BurnChart renders one horizontal bar per period. Bars above ideal are drawn
// in the over-pace color, and a marker shows the ideal position on each row.
func BurnChart(values []float64, labels []string, ideal float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelW {
			labelW = w
		}
	}
	const valueW = 8
	barW := width - labelW - valueW - 2
	if barW < 5 {
		barW = 5
	}

	ceiling := ideal
	for _, v := range values {
		if v > ceiling {
			ceiling = v
		}
	}
	if ceiling <= 0 {
		ceiling = 1
	}

	idealPos := -1
	if ideal > 0 {
		idealPos = int(math.Round(ideal / ceiling * float64(barW)))
		if idealPos >= barW {
			idealPos = barW - 1
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	markStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		color := t.Accent
		if ideal > 0 && v > ideal {
			color = t.Red
		}
		barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

		filled := int(math.Round(v / ceiling * float64(barW)))
		if filled < 0 {
			filled = 0
		}
		if filled > barW {
			filled = barW
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)))
		b.WriteString(spaceStyle.Render(" "))
		for col := 0; col < barW; col++ {
			switch {
			case col == idealPos:
				b.WriteString(markStyle.Render("│"))
			case col < filled:
				b.WriteString(barStyle.Render("█"))
			default:
				b.WriteString(emptyStyle.Render("·"))
			}
		}
		b.WriteString(spaceStyle.Render(" "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%*.1fh", valueW-1, v)))
		if i < len(values)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
