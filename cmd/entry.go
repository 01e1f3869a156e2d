package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/cli"
	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagEditContract int64
	flagEditStart    string
	flagEditEnd      string
	flagEditDuration time.Duration
	flagEditDesc     string
	flagEditUser     string
	flagEditClearEnd bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Correct or remove a single time entry",
}

var entryRmCmd = &cobra.Command{
	Use:   "rm <entryID>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryRm,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <entryID>",
	Short: "Change fields of a time entry",
	Long:  "Change fields of a time entry. Only the flags given are applied; everything else is kept.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryEdit,
}

func init() {
	f := entryEditCmd.Flags()
	f.Int64Var(&flagEditContract, "contract", 0, "Move the entry to this contract")
	f.StringVar(&flagEditStart, "start", "", "Start instant (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&flagEditEnd, "end", "", "End instant (RFC3339 or YYYY-MM-DD)")
	f.DurationVar(&flagEditDuration, "duration", 0, "Explicit duration, e.g. 1h30m")
	f.StringVar(&flagEditDesc, "desc", "", "Description")
	f.StringVar(&flagEditUser, "user", "", "User name")
	f.BoolVar(&flagEditClearEnd, "clear-end", false, "Remove the end instant and explicit duration, reopening the entry")
	entryEditCmd.MarkFlagsMutuallyExclusive("clear-end", "end")
	entryEditCmd.MarkFlagsMutuallyExclusive("clear-end", "duration")

	entryCmd.AddCommand(entryRmCmd, entryEditCmd)
	rootCmd.AddCommand(entryCmd)
}

// entryEdit holds the fields a user asked to change. Nil means keep.
type entryEdit struct {
	contract *int64
	start    *string
	end      *string
	duration *time.Duration
	desc     *string
	user     *string
	clearEnd bool
}

func entryEditFromFlags(cmd *cobra.Command) entryEdit {
	var ed entryEdit
	changed := cmd.Flags().Changed
	if changed("contract") {
		ed.contract = &flagEditContract
	}
	if changed("start") {
		ed.start = &flagEditStart
	}
	if changed("end") {
		ed.end = &flagEditEnd
	}
	if changed("duration") {
		ed.duration = &flagEditDuration
	}
	if changed("desc") {
		ed.desc = &flagEditDesc
	}
	if changed("user") {
		ed.user = &flagEditUser
	}
	ed.clearEnd = flagEditClearEnd
	return ed
}

func (ed entryEdit) empty() bool {
	return ed.contract == nil && ed.start == nil && ed.end == nil && ed.duration == nil &&
		ed.desc == nil && ed.user == nil && !ed.clearEnd
}

// apply returns e with the requested changes. A new end instant drops any
// explicit duration so the two cannot disagree.
func (ed entryEdit) apply(e model.TimeEntry) (model.TimeEntry, error) {
	if ed.contract != nil {
		if *ed.contract <= 0 {
			return e, fmt.Errorf("invalid contract id %d", *ed.contract)
		}
		e.ContractID = *ed.contract
	}
	if ed.start != nil {
		t, err := parseInstant(*ed.start, nil)
		if err != nil {
			return e, fmt.Errorf("--start: %w", err)
		}
		e.StartTime = t
	}
	if ed.end != nil {
		t, err := parseInstant(*ed.end, nil)
		if err != nil {
			return e, fmt.Errorf("--end: %w", err)
		}
		e.EndTime = t
		e.DurationSecs = nil
	}
	if ed.duration != nil {
		if *ed.duration < 0 {
			return e, fmt.Errorf("--duration %s is negative", *ed.duration)
		}
		secs := int64(*ed.duration / time.Second)
		e.DurationSecs = &secs
	}
	if ed.desc != nil {
		e.Description = *ed.desc
	}
	if ed.user != nil {
		e.UserName = *ed.user
	}
	if ed.clearEnd {
		e.EndTime = time.Time{}
		e.DurationSecs = nil
	}
	return e, nil
}

func runEntryRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "entry")
	if err != nil {
		return err
	}
	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.DeleteEntry(cmd.Context(), id); err != nil {
		return entryErr(id, err)
	}
	fmt.Printf("  Deleted entry %d\n", id)
	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "entry")
	if err != nil {
		return err
	}
	ed := entryEditFromFlags(cmd)
	if ed.empty() {
		return errors.New("nothing to change; pass at least one flag")
	}

	s, err := openStore(loadConfig())
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	e, err := s.GetEntry(cmd.Context(), id)
	if err != nil {
		return entryErr(id, err)
	}
	if e, err = ed.apply(e); err != nil {
		return err
	}
	if ed.contract != nil {
		if _, err := s.GetContract(cmd.Context(), e.ContractID); err != nil {
			return contractErr(e.ContractID, err)
		}
	}

	err = s.UpdateEntry(cmd.Context(), e)
	if errors.Is(err, store.ErrInvalidRange) {
		return fmt.Errorf("entry %d would end before it starts", id)
	}
	if err != nil {
		return entryErr(id, err)
	}

	dur := "running"
	if !e.IsRunning() {
		if secs, err := burn.ResolveDuration(e); err == nil {
			dur = cli.FormatDuration(int64(secs))
		}
	}
	fmt.Printf("  Updated entry %d on contract %d (%s)\n", id, e.ContractID, dur)
	return nil
}

func entryErr(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("entry %d not found", id)
	}
	return err
}
