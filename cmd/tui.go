package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/hburn/internal/config"
	"github.com/theirongolddev/hburn/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUIContract int64

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().Int64VarP(&flagTUIContract, "contract", "c", 0, "Preselect a contract id")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if flagSkipInvalid {
		cfg.General.SkipInvalid = true
	}

	// Without this lipgloss may fall back to the Ascii profile and drop
	// every background color.
	lipgloss.SetColorProfile(termenv.TrueColor)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	opts := tui.Options{
		Source:     s,
		Config:     cfg,
		NeedSetup:  !config.Exists(),
		ContractID: flagTUIContract,
	}
	if flagNow != "" {
		now, err := sampleNow()
		if err != nil {
			return err
		}
		opts.Clock = func() time.Time { return now }
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
