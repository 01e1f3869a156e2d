package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/tui/components"
	"github.com/theirongolddev/hburn/internal/tui/theme"
)

// portfolio sums the loaded reports.
type portfolio struct {
	contracts  int
	overBudget int
	total      float64
	consumed   float64
	remaining  float64
}

func (a App) portfolio() portfolio {
	var p portfolio
	for _, r := range a.results {
		p.contracts++
		p.total += r.Report.TotalHours
		p.consumed += r.Report.ConsumedHours
		p.remaining += r.Report.RemainingHours
		if r.Report.IsOverBudget {
			p.overBudget++
		}
	}
	return p
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	p := a.portfolio()

	overColor := t.Green
	if p.overBudget > 0 {
		overColor = t.Red
	}
	consumedDelta := ""
	if p.total > 0 {
		consumedDelta = cli.FormatPercent(p.consumed/p.total*100) + " of contracted"
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Active contracts", Value: cli.FormatNumber(int64(p.contracts))},
		{Label: "Contracted", Value: cli.FormatHours(p.total)},
		{Label: "Consumed", Value: cli.FormatHours(p.consumed), Delta: consumedDelta},
		{Label: "Remaining", Value: cli.FormatHours(p.remaining)},
		{Label: "Over budget", Value: cli.FormatNumber(int64(p.overBudget)), Color: overColor},
	}, cw))
	b.WriteString("\n")

	if len(a.results) == 0 {
		b.WriteString(components.ContentCard("Contracts",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
				Render("No active contracts. Add one with `hburn contract add`."), cw))
	} else {
		b.WriteString(components.ContentCard("Contracts", a.renderContractTable(components.CardInnerWidth(cw)), cw))
	}

	if len(a.errs) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Unavailable reports", a.renderErrors(components.CardInnerWidth(cw)), cw))
	}

	return b.String()
}

func (a App) renderContractTable(innerW int) string {
	t := theme.Active
	compact := a.isCompactLayout()

	const (
		markW   = 2
		remW    = 11
		rateW   = 12
		daysW   = 10
		minBarW = 14
	)
	barW := 24
	if compact {
		barW = minBarW
	}

	fixed := markW + barW + remW + daysW + 4
	if !compact {
		fixed += 2*rateW + 2
	}
	titleW := innerW - fixed
	if titleW < 12 {
		titleW = 12
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	cols := func(title, bar, rem, actual, ideal, days string) []string {
		out := []string{padCell(title, titleW), padCell(bar, barW), padCellLeft(rem, remW)}
		if !compact {
			out = append(out, padCellLeft(actual, rateW), padCellLeft(ideal, rateW))
		}
		return append(out, padCellLeft(days, daysW))
	}

	var b strings.Builder
	b.WriteString(headStyle.Render(strings.Repeat(" ", markW) +
		strings.Join(cols("Contract", "Consumed", "Remaining", "Actual", "Ideal", "Time left"), " ")))

	for i, r := range a.results {
		rep := r.Report
		style := rowStyle
		mark := "  "
		if i == a.cursor {
			style = selStyle
			mark = "▸ "
		}

		remStyle := style
		if rep.RemainingHours < 0 {
			remStyle = style.Foreground(t.Red)
		}
		actualStyle := style.Foreground(t.PaceColor(rep.IsOverBudget))

		cells := []string{
			style.Render(padCell(truncStr(rep.ContractTitle, titleW), titleW)),
			components.CompactBudgetBar(rep.ProgressPercent, rep.IsOverBudget, barW),
			remStyle.Render(padCellLeft(cli.FormatHours(rep.RemainingHours), remW)),
		}
		if !compact {
			cells = append(cells,
				actualStyle.Render(padCellLeft(cli.FormatRate(rep.ActualBurnRate), rateW)),
				style.Render(padCellLeft(cli.FormatRate(rep.IdealMonthlyBurn), rateW)))
		}
		cells = append(cells, style.Render(padCellLeft(cli.FormatDays(rep.DaysRemaining), daysW)))

		b.WriteString("\n")
		b.WriteString(style.Render(mark))
		b.WriteString(strings.Join(cells, spaceStyle.Render(" ")))
	}

	return b.String()
}

func (a App) renderErrors(innerW int) string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	lines := make([]string, 0, len(a.errs))
	for _, err := range a.errs {
		lines = append(lines, style.Render(truncStr(fmt.Sprintf("! %v", err), innerW)))
	}
	return strings.Join(lines, "\n")
}

// padCell pads s on the right to w visible columns.
func padCell(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// padCellLeft pads s on the left to w visible columns.
func padCellLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
