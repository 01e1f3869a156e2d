package store

import (
	"context"
	"fmt"

	"github.com/theirongolddev/hburn/internal/model"
)

// FileInfo holds the tracked mtime and size for an imported file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
	// BatchID identifies the import run that last wrote the file.
	BatchID string
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all imported files.
func (s *Store) GetTrackedFiles(ctx context.Context) (map[string]FileInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_path, mtime_ns, size_bytes, COALESCE(batch_id, '') FROM imported_files")
	if err != nil {
		return nil, fmt.Errorf("listing imported files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.BatchID); err != nil {
			return nil, fmt.Errorf("scanning imported file: %w", err)
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// ImportFile replaces the entries previously imported from path with entries
// and records the file's mtime and size, all in one transaction. Re-importing
// a changed or unchanged file therefore never duplicates rows.
func (s *Store) ImportFile(ctx context.Context, path string, fi FileInfo, entries []model.TimeEntry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import of %s: %w", path, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM time_entries WHERE source_file = ?`, path); err != nil {
		return 0, fmt.Errorf("clearing previous import of %s: %w", path, err)
	}

	stamp := s.stamp()
	for i, e := range entries {
		if _, err := addEntry(ctx, tx, e, path, stamp); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO imported_files
		(file_path, mtime_ns, size_bytes, entries, batch_id, imported_at) VALUES (?, ?, ?, ?, ?, ?)`,
		path, fi.MtimeNs, fi.SizeBytes, len(entries), fi.BatchID, stamp)
	if err != nil {
		return 0, fmt.Errorf("tracking %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import of %s: %w", path, err)
	}
	return len(entries), nil
}
