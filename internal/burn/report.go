// Package burn turns raw time entries into a contract's budget status and
// burn-rate projection.
//
// Every function is pure: the caller samples now once per report and passes
// it in, so two reports built from the same inputs are identical.
package burn

import (
	"fmt"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

// BuildReport aggregates the contract's entries and assembles its report.
// It fails only when an entry for the contract cannot be resolved.
func BuildReport(c model.Contract, entries []model.TimeEntry, now time.Time) (model.ContractReport, error) {
	consumed, err := ConsumedHours(c.ID, entries)
	if err != nil {
		return model.ContractReport{}, fmt.Errorf("contract %d: %w", c.ID, err)
	}
	return Assemble(c, consumed, now), nil
}

// BuildReportSkipping is BuildReport with unresolvable entries excluded.
// The excluded entries are returned alongside the report.
func BuildReportSkipping(c model.Contract, entries []model.TimeEntry, now time.Time) (model.ContractReport, []*InvalidEntryError) {
	valid, rejected := Partition(c.ID, entries)
	consumed, _ := ConsumedHours(c.ID, valid)
	return Assemble(c, consumed, now), rejected
}

// BuildReports builds one report per contract against a shared now.
// Contracts whose entries fail to resolve produce an error instead of a report.
func BuildReports(contracts []model.Contract, entries []model.TimeEntry, now time.Time) ([]model.ContractReport, []error) {
	byContract := GroupByContract(entries)

	reports := make([]model.ContractReport, 0, len(contracts))
	var errs []error
	for _, c := range contracts {
		r, err := BuildReport(c, byContract[c.ID], now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		reports = append(reports, r)
	}
	return reports, errs
}

// Assemble maps the budget, window, and burn-rate results into a report.
func Assemble(c model.Contract, consumedHours float64, now time.Time) model.ContractReport {
	budget := Budget(c.TotalHours, consumedHours)
	window := Window(c.StartDate, c.EndDate, now)
	rate := Project(consumedHours, c.TotalHours, window)

	return model.ContractReport{
		ContractID:       c.ID,
		ContractTitle:    c.DisplayTitle(),
		CompanyName:      c.CompanyName,
		TotalHours:       budget.TotalHours,
		ConsumedHours:    budget.ConsumedHours,
		RemainingHours:   budget.RemainingHours,
		ProgressPercent:  budget.ProgressPercent,
		IdealMonthlyBurn: rate.IdealMonthlyBurn,
		ActualBurnRate:   rate.ActualBurnRate,
		DaysRemaining:    window.DaysRemaining,
		IsOverBudget:     rate.IsOverBudget,
		ElapsedMonths:    window.ElapsedMonths,
		TotalMonths:      window.TotalMonths,
		NotStarted:       window.NotStarted,
		GeneratedAt:      now,
	}
}
