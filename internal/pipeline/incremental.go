package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/source"
	"github.com/theirongolddev/hburn/internal/store"
)

// ImportSink receives parsed entries and remembers which files were imported.
// ImportFile must replace whatever an earlier import of the same path wrote.
type ImportSink interface {
	GetTrackedFiles(ctx context.Context) (map[string]store.FileInfo, error)
	ImportFile(ctx context.Context, path string, fi store.FileInfo, entries []model.TimeEntry) (int, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	BatchID     string
	TotalFiles  int
	Skipped     int // unchanged since the last import
	Imported    int // files written
	Entries     int
	ParseErrors int
	FileErrors  int
	Errors      []error
}

// ImportOptions tunes Import.
type ImportOptions struct {
	// Force re-imports files whose mtime and size are unchanged.
	Force bool
	// UserName fills entries that carry no user.
	UserName string
	Progress ProgressFunc
}

// Import discovers files under root, parses the ones that changed since the
// last run, and writes each file's entries in one transaction.
func Import(ctx context.Context, root string, sink ImportSink, opts ImportOptions) (*ImportResult, error) {
	// Tracked paths are absolute so the same file is recognized however root is spelled.
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	files, err := source.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	result := &ImportResult{BatchID: uuid.NewString(), TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := sink.GetTrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading import history: %w", err)
	}

	var toParse []source.DiscoveredFile
	for _, f := range files {
		prev, ok := tracked[f.Path]
		if !opts.Force && ok && prev.MtimeNs == f.MtimeNs && prev.SizeBytes == f.SizeBytes {
			result.Skipped++
			continue
		}
		toParse = append(toParse, f)
	}

	parsed := ParseAll(toParse, opts.Progress)

	for i, pr := range parsed {
		f := toParse[i]
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", f.Path, pr.Err))
			continue
		}
		result.ParseErrors += pr.ParseErrors

		if opts.UserName != "" {
			for j := range pr.Entries {
				if pr.Entries[j].UserName == "" {
					pr.Entries[j].UserName = opts.UserName
				}
			}
		}

		fi := store.FileInfo{MtimeNs: f.MtimeNs, SizeBytes: f.SizeBytes, BatchID: result.BatchID}
		n, err := sink.ImportFile(ctx, f.Path, fi, pr.Entries)
		if err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		result.Imported++
		result.Entries += n
	}

	return result, nil
}
