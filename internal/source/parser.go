// Package source discovers and parses JSONL and CSV time-entry import files.
package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

// ParseResult holds the output of parsing a single import file.
type ParseResult struct {
	Entries     []model.TimeEntry
	ParseErrors int
	Err         error
}

// ParseFile reads time entries from a discovered file. Malformed lines are
// counted in ParseErrors and skipped; Err is set only when the file itself
// cannot be read.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	switch df.Format {
	case FormatJSONL:
		return parseJSONL(f)
	case FormatCSV:
		return parseCSV(f)
	}
	return ParseResult{Err: fmt.Errorf("%s: unsupported format %q", df.Path, df.Format)}
}

func parseJSONL(r io.Reader) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var raw RawEntry
		if err := json.Unmarshal(line, &raw); err != nil {
			res.ParseErrors++
			continue
		}
		e, err := raw.toEntry()
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Entries = append(res.Entries, e)
	}

	if err := scanner.Err(); err != nil {
		res.Err = err
	}
	return res
}

var errMissingColumn = errors.New("missing required column")

func parseCSV(r io.Reader) ParseResult {
	var res ParseResult

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res
		}
		return ParseResult{Err: fmt.Errorf("reading csv header: %w", err)}
	}

	// Spreadsheet exports often prefix the first header with a byte order mark.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"contractid", "starttime"} {
		if _, ok := cols[req]; !ok {
			return ParseResult{Err: fmt.Errorf("%w: %s", errMissingColumn, req)}
		}
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.ParseErrors++
			continue
		}

		id, err := strconv.ParseInt(field(rec, "contractid"), 10, 64)
		if err != nil {
			res.ParseErrors++
			continue
		}
		raw := RawEntry{
			ContractID:  flexID(id),
			StartTime:   field(rec, "starttime"),
			EndTime:     field(rec, "endtime"),
			Description: field(rec, "description"),
			User:        field(rec, "user"),
		}
		if s := field(rec, "durationseconds"); s != "" {
			d, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				res.ParseErrors++
				continue
			}
			raw.DurationSeconds = &d
		}

		e, err := raw.toEntry()
		if err != nil {
			res.ParseErrors++
			continue
		}
		res.Entries = append(res.Entries, e)
	}

	return res
}

func (r RawEntry) toEntry() (model.TimeEntry, error) {
	if r.ContractID <= 0 {
		return model.TimeEntry{}, fmt.Errorf("contractId must be positive")
	}
	if r.DurationSeconds != nil && *r.DurationSeconds < 0 {
		return model.TimeEntry{}, fmt.Errorf("durationSeconds must not be negative")
	}
	start, err := parseInstant(r.StartTime)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("startTime: %w", err)
	}

	e := model.TimeEntry{
		ContractID:   int64(r.ContractID),
		UserName:     r.User,
		Description:  r.Description,
		StartTime:    start,
		DurationSecs: r.DurationSeconds,
	}
	if r.EndTime != "" {
		if e.EndTime, err = parseInstant(r.EndTime); err != nil {
			return model.TimeEntry{}, fmt.Errorf("endTime: %w", err)
		}
	}
	if !e.EndTime.IsZero() && e.EndTime.Before(start) {
		return model.TimeEntry{}, fmt.Errorf("endTime precedes startTime")
	}
	if e.EndTime.IsZero() && e.DurationSecs == nil {
		return model.TimeEntry{}, fmt.Errorf("entry needs endTime or durationSeconds")
	}
	return e, nil
}

func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
