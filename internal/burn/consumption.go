package burn

import (
	"errors"

	"github.com/theirongolddev/hburn/internal/model"
)

const secondsPerHour = 3600

// ConsumedHours sums the resolved durations of all entries belonging to
// contractID. Entries for other contracts are ignored. The first entry that
// fails to resolve aborts the sum.
func ConsumedHours(contractID int64, entries []model.TimeEntry) (float64, error) {
	var total float64
	for _, e := range entries {
		if e.ContractID != contractID {
			continue
		}
		secs, err := ResolveDuration(e)
		if err != nil {
			return 0, err
		}
		total += secs
	}
	return total / secondsPerHour, nil
}

// Partition splits the entries of contractID into those that resolve and
// those that do not, so a caller can drop the bad ones and aggregate again.
func Partition(contractID int64, entries []model.TimeEntry) ([]model.TimeEntry, []*InvalidEntryError) {
	var (
		valid    []model.TimeEntry
		rejected []*InvalidEntryError
	)
	for _, e := range entries {
		if e.ContractID != contractID {
			continue
		}
		if _, err := ResolveDuration(e); err != nil {
			var ie *InvalidEntryError
			if errors.As(err, &ie) {
				rejected = append(rejected, ie)
			}
			continue
		}
		valid = append(valid, e)
	}
	return valid, rejected
}

// GroupByContract indexes entries by their contract ID.
func GroupByContract(entries []model.TimeEntry) map[int64][]model.TimeEntry {
	groups := make(map[int64][]model.TimeEntry)
	for _, e := range entries {
		groups[e.ContractID] = append(groups[e.ContractID], e)
	}
	return groups
}
