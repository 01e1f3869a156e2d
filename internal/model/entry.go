package model

import "time"

// TimeEntry is one block of billable time logged against a contract.
// EndTime is zero while the entry is still running.
type TimeEntry struct {
	ID          int64     `json:"id"`
	ContractID  int64     `json:"contractId"`
	UserName    string    `json:"userName,omitempty"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime,omitempty"`

	// DurationSecs overrides EndTime-StartTime when set.
	DurationSecs *int64 `json:"durationSeconds,omitempty"`
}

// IsRunning reports whether the entry has been started but not stopped.
func (e TimeEntry) IsRunning() bool {
	return e.EndTime.IsZero() && e.DurationSecs == nil
}

// ClosedAt returns a copy of a running entry ended at t.
// Entries that are already closed are returned unchanged.
func (e TimeEntry) ClosedAt(t time.Time) TimeEntry {
	if !e.IsRunning() {
		return e
	}
	e.EndTime = t
	return e
}
