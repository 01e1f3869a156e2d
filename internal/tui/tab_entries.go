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

// entryOverhead is the card border, title, and header row around the list.
const entryOverhead = 4

// entryRows is how many entries fit in the content area.
func (a App) entryRows() int {
	n := a.contentHeight() - entryOverhead
	if n < 1 {
		n = 1
	}
	return n
}

func (a App) renderEntriesTab(cw int) string {
	t := theme.Active
	res, ok := a.selected()
	if !ok {
		return components.ContentCard("Entries", "No contract selected.", cw)
	}

	entries := a.selectedEntries()
	title := fmt.Sprintf("Entries · %s (%d)", res.Report.ContractTitle, len(entries))
	if len(entries) == 0 {
		return components.ContentCard(title,
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No time logged yet."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	const (
		whenW = 16
		durW  = 9
		userW = 14
	)
	descW := innerW - whenW - durW - userW - 3
	if descW < 10 {
		descW = 10
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	runStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	badStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	sp := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	var b strings.Builder
	b.WriteString(headStyle.Render(strings.Join([]string{
		padCell("Started", whenW), padCellLeft("Duration", durW), padCell("User", userW), "Description",
	}, " ")))

	start := a.entryOffset
	if start > len(entries) {
		start = len(entries)
	}
	end := start + a.entryRows()
	if end > len(entries) {
		end = len(entries)
	}
	for _, e := range entries[start:end] {
		durStyle := rowStyle
		dur := ""
		secs, err := burn.ResolveDuration(e.ClosedAt(a.reportedAt))
		switch {
		case err != nil:
			durStyle, dur = badStyle, "invalid"
		case e.IsRunning():
			durStyle, dur = runStyle, cli.FormatDuration(int64(secs))
		default:
			dur = cli.FormatDuration(int64(secs))
		}

		user := e.UserName
		if user == "" {
			user = "-"
		}

		b.WriteString("\n")
		b.WriteString(rowStyle.Render(padCell(cli.FormatClock(e.StartTime), whenW)))
		b.WriteString(sp)
		b.WriteString(durStyle.Render(padCellLeft(dur, durW)))
		b.WriteString(sp)
		b.WriteString(mutedStyle.Render(padCell(truncStr(user, userW), userW)))
		b.WriteString(sp)
		b.WriteString(rowStyle.Render(truncStr(e.Description, descW)))
	}

	if len(entries) > a.entryRows() {
		title += fmt.Sprintf(" · %d-%d", start+1, end)
	}
	return components.ContentCard(title, b.String(), cw)
}
