package burn

import (
	"errors"
	"fmt"
)

// ErrInvalidEntry matches any time entry whose resolved duration is negative.
var ErrInvalidEntry = errors.New("invalid time entry")

// InvalidEntryError identifies the entry that could not be resolved.
type InvalidEntryError struct {
	EntryID    int64
	ContractID int64
	Seconds    float64
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("%s: entry %d on contract %d has negative duration (%.0fs)",
		ErrInvalidEntry, e.EntryID, e.ContractID, e.Seconds)
}

// Unwrap lets errors.Is(err, ErrInvalidEntry) match.
func (e *InvalidEntryError) Unwrap() error {
	return ErrInvalidEntry
}
