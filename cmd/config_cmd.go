package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/hburn/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:     %s%s\n", dbPath(cfg), envNote("HBURN_DB"))
	fmt.Printf("    User name:    %s\n", dash(cfg.General.UserName))
	fmt.Printf("    Skip invalid: %v\n", cfg.General.SkipInvalid)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:    %s%s\n", config.GetDaemonAddr(cfg), envNote("HBURN_ADDR"))
	fmt.Printf("    Interval:   %s\n", cfg.Daemon.Interval())
	fmt.Printf("    Events:     %d retained\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    Rate limit: %d/min (burst %d)\n", cfg.Daemon.RatePerMinute, cfg.Daemon.Burst)
	fmt.Printf("    Watch dir:  %s\n", dash(cfg.Daemon.WatchDir))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v (every %ds)\n", cfg.TUI.AutoRefresh, cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  Run `hburn setup` to reconfigure.")
	return nil
}

func envNote(name string) string {
	if os.Getenv(name) != "" {
		return " (from " + name + ")"
	}
	return ""
}
