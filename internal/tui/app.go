// Package tui provides the interactive Bubble Tea dashboard for hburn.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hburn/internal/config"
	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/pipeline"
	"github.com/theirongolddev/hburn/internal/tui/components"
	"github.com/theirongolddev/hburn/internal/tui/theme"
)

// Options configures a new dashboard.
type Options struct {
	Source Source
	Config config.Config
	// Clock samples the instant each load reports for. Nil means time.Now.
	Clock func() time.Time
	// NeedSetup shows the first-run form once data has loaded.
	NeedSetup bool
	// ContractID preselects a contract when non-zero.
	ContractID int64
}

// App is the root Bubble Tea model.
type App struct {
	src         Source
	clock       func() time.Time
	cfg         config.Config
	skipInvalid bool

	// Data from the last load, all computed for reportedAt.
	results    []pipeline.Result
	errs       []error
	entries    map[int64][]model.TimeEntry
	reportedAt time.Time
	loadTime   time.Duration
	loadErr    error
	loaded     bool

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width       int
	height      int
	activeTab   int
	showHelp    bool
	cursor      int
	wantID      int64
	entryOffset int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight  = 5
	minHalfPageScroll = 1

	tabOverview = 0
	tabContract = 1
	tabEntries  = 2
)

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	theme.SetActive(opts.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	refreshInterval := time.Duration(opts.Config.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 30 * time.Second
	}

	return App{
		src:             opts.Source,
		clock:           clock,
		cfg:             opts.Config,
		skipInvalid:     opts.Config.General.SkipInvalid,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		needSetup:       opts.NeedSetup,
		setupVals:       SetupValuesFrom(opts.Config),
		wantID:          opts.ContractID,
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.src, a.skipInvalid, a.clock),
		a.spinner.Tick,
		tickCmd(),
	)
}

// apply installs freshly loaded data, keeping the selected contract when it
// is still present.
func (a *App) apply(msg DataLoadedMsg) {
	a.loadErr = msg.Err
	a.lastRefresh = time.Now()
	if msg.Err != nil {
		return
	}

	selected := a.wantID
	if r, ok := a.selected(); ok && selected == 0 {
		selected = r.Report.ContractID
	}
	a.wantID = 0

	a.results = msg.Results
	a.errs = msg.Errs
	a.entries = msg.Entries
	a.reportedAt = msg.At
	a.loadTime = msg.LoadTime

	a.cursor = 0
	for i, r := range a.results {
		if r.Report.ContractID == selected {
			a.cursor = i
			break
		}
	}
	a.clampEntryOffset()
}

// selected returns the contract under the cursor.
func (a App) selected() (pipeline.Result, bool) {
	if a.cursor < 0 || a.cursor >= len(a.results) {
		return pipeline.Result{}, false
	}
	return a.results[a.cursor], true
}

func (a App) selectedEntries() []model.TimeEntry {
	r, ok := a.selected()
	if !ok {
		return nil
	}
	return a.entries[r.Report.ContractID]
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveUp()
		case tea.MouseButtonWheelDown:
			a.moveDown()
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := components.TabAtX(msg.X, a.activeTab); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.apply(msg)
		if a.needSetup {
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.apply(DataLoadedMsg(msg))
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && a.setupForm == nil &&
			time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.src, a.skipInvalid, a.clock))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.src, a.skipInvalid, a.clock)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		a.cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(a.cfg) // best-effort; the toggle still applies to this session
		return a, nil
	case "j", "down":
		a.moveDown()
	case "k", "up":
		a.moveUp()
	case "g":
		if a.activeTab == tabEntries {
			a.entryOffset = 0
		} else {
			a.selectIndex(0)
		}
	case "G":
		if a.activeTab == tabEntries {
			a.entryOffset = len(a.selectedEntries())
			a.clampEntryOffset()
		} else {
			a.selectIndex(len(a.results) - 1)
		}
	case "ctrl+d":
		if a.activeTab == tabEntries {
			a.entryOffset += a.halfPage()
			a.clampEntryOffset()
		}
	case "ctrl+u":
		if a.activeTab == tabEntries {
			a.entryOffset -= a.halfPage()
			a.clampEntryOffset()
		}
	case "enter":
		if a.activeTab == tabOverview && len(a.results) > 0 {
			a.activeTab = tabContract
		}
	case "esc":
		if a.activeTab != tabOverview {
			a.activeTab = tabOverview
		}
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if len(key) == 1 {
			if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a *App) moveDown() {
	if a.activeTab == tabEntries {
		a.entryOffset++
		a.clampEntryOffset()
		return
	}
	a.selectIndex(a.cursor + 1)
}

func (a *App) moveUp() {
	if a.activeTab == tabEntries {
		a.entryOffset--
		a.clampEntryOffset()
		return
	}
	a.selectIndex(a.cursor - 1)
}

func (a *App) selectIndex(i int) {
	if i >= len(a.results) {
		i = len(a.results) - 1
	}
	if i < 0 {
		i = 0
	}
	if i != a.cursor {
		a.entryOffset = 0
	}
	a.cursor = i
}

func (a *App) clampEntryOffset() {
	maxOffset := len(a.selectedEntries()) - a.entryRows()
	if a.entryOffset > maxOffset {
		a.entryOffset = maxOffset
	}
	if a.entryOffset < 0 {
		a.entryOffset = 0
	}
}

func (a App) halfPage() int {
	h := a.entryRows() / 2
	if h < minHalfPageScroll {
		h = minHalfPageScroll
	}
	return h
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		_ = a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		a.refreshing = true
		return a, refreshDataCmd(a.src, a.skipInvalid, a.clock)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// contentHeight is the height left between the tab bar and status bar.
func (a App) contentHeight() int {
	h := a.height - 2
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  hburn needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ hburn"))
	b.WriteString(subtitleStyle.Render(" · Contract Burn Rate"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Building contract reports..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"o c e", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Select contract / scroll entries"},
		{"g G", "First / Last"},
		{"^d ^u", "Half-page scroll (entries)"},
	})
	b.WriteString("\n")
	section(&b, "Actions", [][2]string{
		{"Enter", "Open selected contract"},
		{"Esc", "Back to overview"},
		{"r", "Refresh reports"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		ReportedAt:  a.reportedAt,
		LoadTime:    a.loadTime,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		Invalid:     len(a.errs),
	})

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil:
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabContract:
		content = a.renderContractTab(cw)
	case a.activeTab == tabEntries:
		content = a.renderEntriesTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
