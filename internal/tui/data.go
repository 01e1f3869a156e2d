package tui

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/model"
	"github.com/theirongolddev/hburn/internal/pipeline"
)

// Source is the read side of the store the dashboard needs.
type Source interface {
	pipeline.ReportSource
	ListEntries(ctx context.Context, contractID int64) ([]model.TimeEntry, error)
}

// DataLoadedMsg is sent when reports for every active contract are built.
type DataLoadedMsg struct {
	Results  []pipeline.Result
	Errs     []error
	Entries  map[int64][]model.TimeEntry
	At       time.Time
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background refresh completes.
type RefreshDataMsg DataLoadedMsg

const loadTimeout = 30 * time.Second

// loadData builds every report for a single sampled instant.
func loadData(src Source, skipInvalid bool, now time.Time) DataLoadedMsg {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	rep := pipeline.Reporter{Source: src, SkipInvalid: skipInvalid}
	results, errs := rep.Active(ctx, now)

	entries := make(map[int64][]model.TimeEntry, len(results))
	for _, r := range results {
		list, err := src.ListEntries(ctx, r.Report.ContractID)
		if err != nil {
			return DataLoadedMsg{At: now, LoadTime: time.Since(start), Err: err}
		}
		sort.Slice(list, func(i, j int) bool { return list[i].StartTime.After(list[j].StartTime) })
		entries[r.Report.ContractID] = list
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Report, results[j].Report
		if a.IsOverBudget != b.IsOverBudget {
			return a.IsOverBudget
		}
		return a.ContractID < b.ContractID
	})

	return DataLoadedMsg{
		Results:  results,
		Errs:     errs,
		Entries:  entries,
		At:       now,
		LoadTime: time.Since(start),
	}
}

func loadDataCmd(src Source, skipInvalid bool, clock func() time.Time) tea.Cmd {
	return func() tea.Msg {
		return loadData(src, skipInvalid, clock())
	}
}

func refreshDataCmd(src Source, skipInvalid bool, clock func() time.Time) tea.Cmd {
	return func() tea.Msg {
		return RefreshDataMsg(loadData(src, skipInvalid, clock()))
	}
}

// monthlyBurn buckets consumed hours by calendar month of entry start, from
// the contract's first month through the month containing min(now, end).
// At most limit trailing months are returned.
func monthlyBurn(c model.Contract, entries []model.TimeEntry, now time.Time, limit int) ([]float64, []string) {
	start, last := c.StartDate.UTC(), now.UTC()
	if c.EndDate.Before(last) {
		last = c.EndDate.UTC()
	}
	if last.Before(start) {
		return nil, nil
	}

	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	stop := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []time.Time
	for m := first; !m.After(stop); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}

	idx := make(map[time.Time]int, len(months))
	for i, m := range months {
		idx[m] = i
	}

	values := make([]float64, len(months))
	for _, e := range entries {
		if e.ContractID != c.ID {
			continue
		}
		secs, err := burn.ResolveDuration(e.ClosedAt(now))
		if err != nil {
			continue
		}
		st := e.StartTime.UTC()
		if i, ok := idx[time.Date(st.Year(), st.Month(), 1, 0, 0, 0, 0, time.UTC)]; ok {
			values[i] += secs / 3600
		}
	}

	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Format("Jan 06")
	}

	if limit > 0 && len(values) > limit {
		values = values[len(values)-limit:]
		labels = labels[len(labels)-limit:]
	}
	return values, labels
}
