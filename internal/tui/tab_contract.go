package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/tui/components"
	"github.com/theirongolddev/hburn/internal/tui/theme"
)

const chartMonths = 12

func (a App) renderContractTab(cw int) string {
	t := theme.Active
	res, ok := a.selected()
	if !ok {
		return components.ContentCard("Contract", "No contract selected.", cw)
	}
	rep := res.Report
	c := res.Contract

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)

	var b strings.Builder
	b.WriteString(titleStyle.Render(" " + rep.ContractTitle))
	b.WriteString(metaStyle.Render(fmt.Sprintf("  #%d · %s · %s → %s",
		rep.ContractID, rep.CompanyName, cli.FormatDate(c.StartDate), cli.FormatDate(c.EndDate))))
	b.WriteString("\n")

	remColor := t.TextPrimary
	if rep.RemainingHours < 0 {
		remColor = t.Red
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Consumed", Value: cli.FormatHours(rep.ConsumedHours), Delta: "of " + cli.FormatHours(rep.TotalHours)},
		{Label: "Remaining", Value: cli.FormatHours(rep.RemainingHours), Color: remColor},
		{Label: "Actual burn", Value: cli.FormatRate(rep.ActualBurnRate), Color: t.PaceColor(rep.IsOverBudget)},
		{Label: "Ideal burn", Value: cli.FormatRate(rep.IdealMonthlyBurn)},
	}, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Budget", a.renderBudget(res.Skipped, components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Monthly burn", a.renderMonthly(components.CardInnerWidth(cw)), cw))
		return b.String()
	}

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Budget", a.renderBudget(res.Skipped, components.CardInnerWidth(widths[0])), widths[0]),
		components.ContentCard("Monthly burn", a.renderMonthly(components.CardInnerWidth(widths[1])), widths[1]),
	}))
	return b.String()
}

func (a App) renderBudget(skipped []*burn.InvalidEntryError, innerW int) string {
	t := theme.Active
	res, _ := a.selected()
	rep := res.Report

	const labelW = 9
	barW := innerW - labelW - 8
	if barW < 10 {
		barW = 10
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	paceStyle := lipgloss.NewStyle().Foreground(t.PaceColor(rep.IsOverBudget)).Background(t.Surface).Bold(true)

	kv := func(k, v string) string {
		return labelStyle.Render(fmt.Sprintf("%-*s", labelW, k)) + valueStyle.Render(" "+v)
	}

	pace := "On pace"
	if rep.IsOverBudget {
		pace = fmt.Sprintf("Over budget (actual above %.1fx ideal)", burn.OverBudgetTolerance)
	}

	lines := []string{
		components.BudgetBar("Consumed", rep.ProgressPercent, rep.IsOverBudget, labelW, barW),
		components.ElapsedBar("Elapsed", rep.ElapsedMonths, rep.TotalMonths, labelW, barW),
		"",
		labelStyle.Render(fmt.Sprintf("%-*s", labelW, "Pace")) + " " + paceStyle.Render(pace),
		kv("Window", cli.FormatMonths(rep.ElapsedMonths)+" of "+cli.FormatMonths(rep.TotalMonths)),
		kv("Time left", cli.FormatDays(rep.DaysRemaining)),
	}

	for _, n := range cli.ReportNotes(rep) {
		lines = append(lines, warnStyle.Render("! "+n))
	}
	if len(skipped) > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("! %d entries excluded as invalid", len(skipped))))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderMonthly(innerW int) string {
	t := theme.Active
	res, _ := a.selected()

	values, labels := monthlyBurn(res.Contract, a.entries[res.Report.ContractID], a.reportedAt, chartMonths)
	if len(values) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Contract has not started.")
	}

	legend := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render("│ ideal " + cli.FormatRate(res.Report.IdealMonthlyBurn))
	return components.BurnChart(values, labels, res.Report.IdealMonthlyBurn, innerW) + "\n" + legend
}
