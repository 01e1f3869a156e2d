// Package cmd implements the hburn CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/theirongolddev/hburn/internal/config"
	"github.com/theirongolddev/hburn/internal/pipeline"
	"github.com/theirongolddev/hburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDB          string
	flagQuiet       bool
	flagNow         string
	flagSkipInvalid bool
)

var rootCmd = &cobra.Command{
	Use:   "hburn",
	Short: "Contract hours and burn-rate reports",
	Long:  "Track fixed-hour contracts: consumed hours, remaining balance, and whether the burn rate is on pace.",
	RunE:  runContracts,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from HBURN_DB or config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagNow, "now", "", "Report as of this instant (RFC3339 or YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVar(&flagSkipInvalid, "skip-invalid", false, "Exclude unresolvable entries instead of failing the report")
}

// loadConfig returns the user config, falling back to defaults with a warning.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		warnf("  Config unreadable, using defaults: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func dbPath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.GetDBPath(cfg)
}

// openStore opens the database shared by every command.
func openStore(cfg config.Config) (*store.Store, error) {
	s, err := store.Open(dbPath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

func newReporter(cfg config.Config, src pipeline.ReportSource) pipeline.Reporter {
	return pipeline.Reporter{Source: src, SkipInvalid: flagSkipInvalid || cfg.General.SkipInvalid}
}

// sampleNow returns the instant a command reports for. It is sampled once per invocation.
func sampleNow() (time.Time, error) {
	return parseInstant(flagNow, time.Now)
}

// parseInstant accepts RFC3339 or a bare local date. Empty means clock(),
// or an error when clock is nil.
func parseInstant(v string, clock func() time.Time) (time.Time, error) {
	if v == "" {
		if clock == nil {
			return time.Time{}, errors.New("time is required")
		}
		return clock(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want RFC3339 or YYYY-MM-DD)", v)
}

func parseID(v, what string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, v)
	}
	return id, nil
}

// warnf writes progress and warnings to stderr unless --quiet is set.
func warnf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
