package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/hburn/internal/config"
	"github.com/theirongolddev/hburn/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	UserName    string
	DBPath      string
	Theme       string
	SkipInvalid bool
	AutoRefresh bool
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		UserName:    cfg.General.UserName,
		DBPath:      cfg.General.DBPath,
		Theme:       theme.ByName(cfg.Appearance.Theme).Name,
		SkipInvalid: cfg.General.SkipInvalid,
		AutoRefresh: cfg.TUI.AutoRefresh,
	}
}

// Apply writes the answers onto cfg.
func (v SetupValues) Apply(cfg config.Config) config.Config {
	cfg.General.UserName = strings.TrimSpace(v.UserName)
	cfg.General.DBPath = strings.TrimSpace(v.DBPath)
	cfg.General.SkipInvalid = v.SkipInvalid
	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	cfg.TUI.AutoRefresh = v.AutoRefresh
	return cfg
}

// NewSetupForm builds the first-run form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to hburn").
				Description("Track fixed-hour contracts and their burn rate.\nThese settings are saved to "+config.Path()+"."),
			huh.NewInput().
				Title("Your name").
				Description("Recorded on entries you log or import without a user.").
				Value(&vals.UserName),
			huh.NewInput().
				Title("Database path").
				Description("Leave blank for the default under the data directory.").
				Placeholder(config.DefaultDBPath()).
				Value(&vals.DBPath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Skip invalid entries?").
				Description("Exclude entries that cannot be measured instead of failing the report.").
				Value(&vals.SkipInvalid),
			huh.NewConfirm().
				Title("Auto-refresh the dashboard?").
				Value(&vals.AutoRefresh),
		),
	).WithTheme(huh.ThemeCharm())
}

func (a *App) saveSetupConfig() error {
	cfg := a.applySetup(a.setupVals.Apply(a.cfg))
	return config.Save(cfg)
}

// applySetup makes cfg current for the running dashboard.
func (a *App) applySetup(cfg config.Config) config.Config {
	a.cfg = cfg
	a.skipInvalid = cfg.General.SkipInvalid
	a.autoRefresh = cfg.TUI.AutoRefresh
	theme.SetActive(cfg.Appearance.Theme)
	return cfg
}
