package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hburn/internal/tui/theme"
)

func clampFrac(pct float64) float64 {
	f := pct / 100
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func solidBar(color lipgloss.Color, width int) progress.Model {
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar
}

// BudgetBar renders a labeled consumption bar. pct is 0-100; values over 100
// fill the bar and keep the true percentage in the label.
func BudgetBar(label string, pct float64, overBudget bool, labelW, barWidth int) string {
	t := theme.Active
	color := t.BudgetColor(pct, overBudget)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		solidBar(color, barWidth).ViewAs(clampFrac(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct))
}

// ElapsedBar renders how much of the contract window has passed.
func ElapsedBar(label string, elapsedMonths, totalMonths float64, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if totalMonths > 0 {
		pct = elapsedMonths / totalMonths * 100
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		solidBar(t.Cyan, barWidth).ViewAs(clampFrac(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct))
}

// CompactBudgetBar renders a bar and percentage sized for a table cell.
func CompactBudgetBar(pct float64, overBudget bool, width int) string {
	t := theme.Active
	color := t.BudgetColor(pct, overBudget)

	barW := width - 5
	if barW < 4 {
		barW = 4
	}
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return solidBar(color, barW).ViewAs(clampFrac(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct))
}
