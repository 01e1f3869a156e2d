package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/config"
	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagLogStart    string
	flagLogEnd      string
	flagLogDuration time.Duration
	flagLogDesc     string
	flagUser        string
)

var logCmd = &cobra.Command{
	Use:   "log <contractID>",
	Short: "Log a finished block of time",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

var startCmd = &cobra.Command{
	Use:   "start <contractID> [description]",
	Short: "Start a timer, stopping any running one",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

var entriesCmd = &cobra.Command{
	Use:   "entries <contractID>",
	Short: "List time entries for a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntries,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	logCmd.Flags().StringVar(&flagLogStart, "start", "", "Start instant (RFC3339 or YYYY-MM-DD)")
	logCmd.Flags().StringVar(&flagLogEnd, "end", "", "End instant (RFC3339 or YYYY-MM-DD)")
	logCmd.Flags().DurationVar(&flagLogDuration, "duration", 0, "Duration, e.g. 1h30m (overrides --end)")
	logCmd.Flags().StringVar(&flagLogDesc, "desc", "", "Description")
	_ = logCmd.MarkFlagRequired("start")
	logCmd.MarkFlagsOneRequired("end", "duration")

	for _, c := range []*cobra.Command{logCmd, startCmd} {
		c.Flags().StringVar(&flagUser, "user", "", "User name (default from config)")
	}

	rootCmd.AddCommand(logCmd, startCmd, stopCmd, entriesCmd, statusCmd)
}

func userName(cfg config.Config) string {
	if flagUser != "" {
		return flagUser
	}
	return cfg.General.UserName
}

func runLog(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "contract")
	if err != nil {
		return err
	}
	start, err := parseInstant(flagLogStart, nil)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}

	cfg := loadConfig()
	e := model.TimeEntry{
		ContractID:  id,
		UserName:    userName(cfg),
		Description: flagLogDesc,
		StartTime:   start,
	}
	if flagLogDuration > 0 {
		secs := int64(flagLogDuration / time.Second)
		e.DurationSecs = &secs
	} else {
		if e.EndTime, err = parseInstant(flagLogEnd, nil); err != nil {
			return fmt.Errorf("--end: %w", err)
		}
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if _, err := s.GetContract(cmd.Context(), id); err != nil {
		return contractErr(id, err)
	}
	warnUnknownUser(cmd, s, e.UserName)
	entryID, err := s.AddEntry(cmd.Context(), e)
	if errors.Is(err, store.ErrInvalidRange) {
		return fmt.Errorf("--end %s is before --start %s", flagLogEnd, flagLogStart)
	}
	if err != nil {
		return err
	}

	secs, _ := burn.ResolveDuration(e)
	fmt.Printf("  Logged %s on contract %d (entry %d)\n", cli.FormatDuration(int64(secs)), id, entryID)
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "contract")
	if err != nil {
		return err
	}
	now, err := sampleNow()
	if err != nil {
		return err
	}

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	c, err := s.GetContract(cmd.Context(), id)
	if err != nil {
		return contractErr(id, err)
	}
	warnUnknownUser(cmd, s, userName(cfg))
	if _, err := s.StartEntry(cmd.Context(), id, userName(cfg), strings.Join(args[1:], " "), now); err != nil {
		return err
	}
	fmt.Printf("  Started timer on %s at %s\n", c.DisplayTitle(), cli.FormatClock(now))
	return nil
}

func runStop(cmd *cobra.Command, _ []string) error {
	now, err := sampleNow()
	if err != nil {
		return err
	}
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	running, err := s.RunningEntry(cmd.Context())
	if errors.Is(err, store.ErrNotFound) {
		fmt.Println("  No timer running.")
		return nil
	}
	if err != nil {
		return err
	}
	if now.Before(running.StartTime) {
		return fmt.Errorf("running entry starts at %s, after %s", cli.FormatClock(running.StartTime), cli.FormatClock(now))
	}

	if _, err := s.StopRunning(cmd.Context(), now); err != nil {
		return err
	}
	fmt.Printf("  Stopped timer on contract %d after %s\n",
		running.ContractID, cli.FormatDuration(int64(now.Sub(running.StartTime)/time.Second)))
	return nil
}

func runStatus(cmd *cobra.Command, _ []string) error {
	now, err := sampleNow()
	if err != nil {
		return err
	}
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	running, err := s.RunningEntry(cmd.Context())
	if errors.Is(err, store.ErrNotFound) {
		fmt.Println("  No timer running.")
		return nil
	}
	if err != nil {
		return err
	}

	title := cli.FormatID(running.ContractID)
	if c, err := s.GetContract(cmd.Context(), running.ContractID); err == nil {
		title = c.DisplayTitle()
	}

	pairs := [][2]string{
		{"Contract", title},
		{"Started", cli.FormatClock(running.StartTime)},
	}
	if secs, err := burn.ResolveDuration(running.ClosedAt(now)); err == nil {
		pairs = append(pairs, [2]string{"Elapsed", cli.FormatDuration(int64(secs))})
	} else {
		pairs = append(pairs, [2]string{"Elapsed", "starts in the future"})
	}
	if running.Description != "" {
		pairs = append(pairs, [2]string{"Task", running.Description})
	}

	fmt.Println()
	fmt.Print(cli.RenderKeyValues(pairs))
	fmt.Println()
	return nil
}

func runEntries(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "contract")
	if err != nil {
		return err
	}
	now, err := sampleNow()
	if err != nil {
		return err
	}
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	c, err := s.GetContract(cmd.Context(), id)
	if err != nil {
		return contractErr(id, err)
	}
	entries, err := s.ListEntries(cmd.Context(), id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("\n  No entries for %s.\n", c.DisplayTitle())
		return nil
	}

	var total float64
	rows := make([][]string, 0, len(entries)+2)
	for _, e := range entries {
		dur := "invalid"
		if secs, err := burn.ResolveDuration(e.ClosedAt(now)); err == nil {
			total += secs
			dur = cli.FormatDuration(int64(secs))
			if e.IsRunning() {
				dur += " (running)"
			}
		}
		rows = append(rows, []string{
			cli.FormatID(e.ID),
			cli.FormatClock(e.StartTime),
			dash(e.UserName),
			dash(e.Description),
			dur,
		})
	}
	rows = append(rows, []string{"---"}, []string{"", "Total", "", "", cli.FormatDuration(int64(total))})

	fmt.Println()
	fmt.Println(cli.RenderTitle(c.DisplayTitle()))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"ID", "Started", "User", "Description", "Duration"},
		Rows:     rows,
		LeftCols: 4,
	}))
	return nil
}

func contractErr(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("contract %d not found", id)
	}
	return err
}
