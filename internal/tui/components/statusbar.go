package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hburn/internal/tui/theme"
)

// StatusInfo is what the status bar reports about the last data load.
type StatusInfo struct {
	ReportedAt  time.Time // the instant reports were computed for
	LoadTime    time.Duration
	Refreshing  bool
	AutoRefresh bool
	Invalid     int // contracts whose report failed
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " [?]help  [r]efresh  [q]uit"

	var right []string
	if info.Invalid > 0 {
		right = append(right, lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render(fmt.Sprintf("%d invalid", info.Invalid)))
	}
	switch {
	case info.Refreshing:
		right = append(right, "refreshing...")
	case info.AutoRefresh:
		right = append(right, "auto")
	}
	if !info.ReportedAt.IsZero() {
		right = append(right, fmt.Sprintf("as of %s (%.1fs)", info.ReportedAt.Format("2006-01-02 15:04"), info.LoadTime.Seconds()))
	}
	r := strings.Join(right, style.Render("  ")) + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(r)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left+strings.Repeat(" ", padding)) + style.Render(r)
}
