package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/hburn/internal/burn"
	"github.com/theirongolddev/hburn/internal/model"
)

// ReportSource is the read side of the store the reporter needs.
type ReportSource interface {
	GetContract(ctx context.Context, id int64) (model.Contract, error)
	ListContracts(ctx context.Context, activeOnly bool) ([]model.Contract, error)
	EntriesForContract(ctx context.Context, contractID int64, now time.Time) ([]model.TimeEntry, error)
}

// Reporter builds contract reports from stored entries.
type Reporter struct {
	Source ReportSource
	// SkipInvalid excludes unresolvable entries instead of failing the report.
	SkipInvalid bool
}

// Result is a report plus the contract it describes and the entries
// excluded from it.
type Result struct {
	Contract model.Contract
	Report   model.ContractReport
	Skipped  []*burn.InvalidEntryError
}

// Contract builds the report for one contract at now.
func (r Reporter) Contract(ctx context.Context, id int64, now time.Time) (Result, error) {
	c, err := r.Source.GetContract(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return r.build(ctx, c, now)
}

// Active builds reports for every active contract against the same now.
// A contract that fails contributes an error and is left out.
func (r Reporter) Active(ctx context.Context, now time.Time) ([]Result, []error) {
	contracts, err := r.Source.ListContracts(ctx, true)
	if err != nil {
		return nil, []error{err}
	}

	results := make([]Result, 0, len(contracts))
	var errs []error
	for _, c := range contracts {
		res, err := r.build(ctx, c, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func (r Reporter) build(ctx context.Context, c model.Contract, now time.Time) (Result, error) {
	entries, err := r.Source.EntriesForContract(ctx, c.ID, now)
	if err != nil {
		return Result{}, fmt.Errorf("loading entries for contract %d: %w", c.ID, err)
	}

	if r.SkipInvalid {
		report, skipped := burn.BuildReportSkipping(c, entries, now)
		return Result{Contract: c, Report: report, Skipped: skipped}, nil
	}

	report, err := burn.BuildReport(c, entries, now)
	if err != nil {
		return Result{}, err
	}
	return Result{Contract: c, Report: report}, nil
}

// Reports extracts the reports from results.
func Reports(results []Result) []model.ContractReport {
	out := make([]model.ContractReport, len(results))
	for i, r := range results {
		out[i] = r.Report
	}
	return out
}
