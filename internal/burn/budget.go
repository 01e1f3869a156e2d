package burn

import "github.com/theirongolddev/hburn/internal/model"

// Budget derives the remaining balance and the 0-100 progress of a budget.
// A contract with no hours reads 100% as soon as anything is consumed.
func Budget(totalHours, consumedHours float64) model.BudgetStatus {
	st := model.BudgetStatus{
		TotalHours:     totalHours,
		ConsumedHours:  consumedHours,
		RemainingHours: totalHours - consumedHours,
	}

	if totalHours <= 0 {
		if consumedHours > 0 {
			st.ProgressPercent = 100
		}
		return st
	}

	pct := consumedHours / totalHours * 100
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	st.ProgressPercent = pct
	return st
}
