package cli

import (
	"strings"

	"github.com/theirongolddev/hburn/internal/model"
)

// RenderReport renders one contract report as a title box and key/value block.
func RenderReport(r model.ContractReport, barWidth int) string {
	var b strings.Builder

	b.WriteString(RenderTitle(r.ContractTitle))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(RenderProgressBar(r.ProgressPercent, barWidth, r.IsOverBudget))
	b.WriteString("\n\n")

	b.WriteString(RenderKeyValues([][2]string{
		{"Company", r.CompanyName},
		{"Contracted", FormatHours(r.TotalHours)},
		{"Consumed", FormatHours(r.ConsumedHours)},
		{"Remaining", FormatHours(r.RemainingHours)},
		{"Ideal burn", FormatRate(r.IdealMonthlyBurn)},
		{"Actual burn", FormatRate(r.ActualBurnRate)},
		{"Pace", RenderPace(r.IsOverBudget)},
		{"Elapsed", FormatMonths(r.ElapsedMonths) + " of " + FormatMonths(r.TotalMonths)},
		{"Time left", FormatDays(r.DaysRemaining)},
	}))

	for _, w := range ReportNotes(r) {
		b.WriteString(RenderWarning(w))
		b.WriteString("\n")
	}

	return b.String()
}

// ReportNotes lists the informational conditions that apply to a report.
func ReportNotes(r model.ContractReport) []string {
	var notes []string
	if r.NotStarted {
		notes = append(notes, "contract has not started yet")
	}
	if r.ZeroBudget() {
		notes = append(notes, "contract has no hours budgeted")
	}
	if r.DegenerateWindow() {
		notes = append(notes, "contract window is empty; ideal burn equals total hours")
	}
	if r.Exhausted() {
		notes = append(notes, "budget exhausted")
	}
	return notes
}

// ReportRow summarizes a report as one row of the contracts table.
func ReportRow(r model.ContractReport, barWidth int) []string {
	return []string{
		FormatID(r.ContractID),
		r.ContractTitle,
		RenderProgressBar(r.ProgressPercent, barWidth, r.IsOverBudget),
		FormatHours(r.RemainingHours),
		FormatRate(r.ActualBurnRate),
		FormatRate(r.IdealMonthlyBurn),
		FormatDays(r.DaysRemaining),
	}
}

// ReportHeaders are the column headers matching ReportRow.
var ReportHeaders = []string{"ID", "Contract", "Progress", "Remaining", "Actual", "Ideal", "Left"}
