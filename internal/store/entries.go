package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

const entryColumns = `id, contract_id, COALESCE(user_name, ''), COALESCE(description, ''),
	start_time, end_time, duration_secs`

// AddEntry inserts a time entry and returns its id.
func (s *Store) AddEntry(ctx context.Context, e model.TimeEntry) (int64, error) {
	return addEntry(ctx, s.db, e, "", s.stamp())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func validateEntry(e model.TimeEntry) error {
	if !e.EndTime.IsZero() && e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("entry on contract %d: end before start: %w", e.ContractID, ErrInvalidRange)
	}
	if e.DurationSecs != nil && *e.DurationSecs < 0 {
		return fmt.Errorf("entry on contract %d: duration %ds: %w", e.ContractID, *e.DurationSecs, ErrInvalidRange)
	}
	return nil
}

func entryArgs(e model.TimeEntry) (sql.NullString, sql.NullInt64) {
	var end sql.NullString
	if !e.EndTime.IsZero() {
		end = sql.NullString{String: formatTime(e.EndTime), Valid: true}
	}
	var dur sql.NullInt64
	if e.DurationSecs != nil {
		dur = sql.NullInt64{Int64: *e.DurationSecs, Valid: true}
	}
	return end, dur
}

// addEntry inserts e. A non-empty source ties the row to the import file it came from.
func addEntry(ctx context.Context, db execer, e model.TimeEntry, source, stamp string) (int64, error) {
	if err := validateEntry(e); err != nil {
		return 0, err
	}
	end, dur := entryArgs(e)
	var src sql.NullString
	if source != "" {
		src = sql.NullString{String: source, Valid: true}
	}

	res, err := db.ExecContext(ctx, `INSERT INTO time_entries
		(contract_id, user_name, description, start_time, end_time, duration_secs, source_file, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ContractID, e.UserName, e.Description, formatTime(e.StartTime), end, dur, src, stamp)
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}
	return res.LastInsertId()
}

// GetEntry returns one entry, or ErrNotFound.
func (s *Store) GetEntry(ctx context.Context, id int64) (model.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TimeEntry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("loading entry %d: %w", id, err)
	}
	return e, nil
}

// UpdateEntry overwrites every field of the entry with e.ID.
func (s *Store) UpdateEntry(ctx context.Context, e model.TimeEntry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	end, dur := entryArgs(e)
	res, err := s.db.ExecContext(ctx, `UPDATE time_entries SET
		contract_id = ?, user_name = ?, description = ?, start_time = ?, end_time = ?, duration_secs = ?
		WHERE id = ?`,
		e.ContractID, e.UserName, e.Description, formatTime(e.StartTime), end, dur, e.ID)
	if err != nil {
		return fmt.Errorf("updating entry %d: %w", e.ID, err)
	}
	return requireRow(res, "entry", e.ID)
}

// DeleteEntry removes an entry.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry %d: %w", id, err)
	}
	return requireRow(res, "entry", id)
}

// StartEntry closes any running entry at `at` and opens a new one on the contract.
func (s *Store) StartEntry(ctx context.Context, contractID int64, userName, desc string, at time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning start: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := stopRunning(ctx, tx, at); err != nil {
		return 0, err
	}

	id, err := addEntry(ctx, tx, model.TimeEntry{
		ContractID:  contractID,
		UserName:    userName,
		Description: desc,
		StartTime:   at,
	}, "", s.stamp())
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing start: %w", err)
	}
	return id, nil
}

// StopRunning closes every running entry at `at` and returns how many were closed.
func (s *Store) StopRunning(ctx context.Context, at time.Time) (int64, error) {
	return stopRunning(ctx, s.db, at)
}

func stopRunning(ctx context.Context, db execer, at time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		`UPDATE time_entries SET end_time = ? WHERE end_time IS NULL AND duration_secs IS NULL`,
		formatTime(at))
	if err != nil {
		return 0, fmt.Errorf("stopping running entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("stopping running entries: %w", err)
	}
	return n, nil
}

// RunningEntry returns the currently running entry, or ErrNotFound.
func (s *Store) RunningEntry(ctx context.Context) (model.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_entries
		WHERE end_time IS NULL AND duration_secs IS NULL ORDER BY start_time DESC LIMIT 1`)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TimeEntry{}, fmt.Errorf("running entry: %w", ErrNotFound)
	}
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("loading running entry: %w", err)
	}
	return e, nil
}

func scanEntry(r rowScanner) (model.TimeEntry, error) {
	var e model.TimeEntry
	var start string
	var end sql.NullString
	var dur sql.NullInt64
	if err := r.Scan(&e.ID, &e.ContractID, &e.UserName, &e.Description, &start, &end, &dur); err != nil {
		return e, err
	}

	var err error
	if e.StartTime, err = parseTime(start); err != nil {
		return e, err
	}
	if end.Valid && end.String != "" {
		if e.EndTime, err = parseTime(end.String); err != nil {
			return e, err
		}
	}
	if dur.Valid {
		v := dur.Int64
		e.DurationSecs = &v
	}
	return e, nil
}

// ListEntries returns a contract's entries ordered by start time, running ones left open.
func (s *Store) ListEntries(ctx context.Context, contractID int64) ([]model.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM time_entries
		WHERE contract_id = ? ORDER BY start_time, id`, contractID)
	if err != nil {
		return nil, fmt.Errorf("listing entries for contract %d: %w", contractID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// EntriesForContract returns the contract's entries with running ones closed at now.
func (s *Store) EntriesForContract(ctx context.Context, contractID int64, now time.Time) ([]model.TimeEntry, error) {
	entries, err := s.ListEntries(ctx, contractID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i] = entries[i].ClosedAt(now)
	}
	return entries, nil
}
