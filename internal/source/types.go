package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Format identifies an importable file type.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// RawEntry is one time entry as it appears in an import file.
type RawEntry struct {
	ContractID      flexID `json:"contractId"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime,omitempty"`
	DurationSeconds *int64 `json:"durationSeconds,omitempty"`
	Description     string `json:"description,omitempty"`
	User            string `json:"user,omitempty"`
}

// flexID accepts a contract id written as a JSON number or a string.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 {
		return fmt.Errorf("empty contractId")
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("contractId %s: %w", b, err)
	}
	*f = flexID(v)
	return nil
}

var _ json.Unmarshaler = (*flexID)(nil)

// DiscoveredFile is an importable file found during scanning.
type DiscoveredFile struct {
	Path      string
	Format    Format
	MtimeNs   int64
	SizeBytes int64
}
