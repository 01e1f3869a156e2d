package burn

import "github.com/theirongolddev/hburn/internal/model"

// ResolveDuration returns the elapsed seconds of one time entry.
// A non-negative explicit duration wins over the start/end timestamps.
func ResolveDuration(e model.TimeEntry) (float64, error) {
	if e.DurationSecs != nil && *e.DurationSecs >= 0 {
		return float64(*e.DurationSecs), nil
	}

	secs := e.EndTime.Sub(e.StartTime).Seconds()
	if secs < 0 {
		return 0, &InvalidEntryError{
			EntryID:    e.ID,
			ContractID: e.ContractID,
			Seconds:    secs,
		}
	}
	return secs, nil
}
