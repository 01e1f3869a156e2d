package burn

import "github.com/theirongolddev/hburn/internal/model"

// OverBudgetTolerance is how far above the ideal pace consumption may run
// before it is flagged.
const OverBudgetTolerance = 1.2

// Project compares the actual monthly burn against the pace that would
// exhaust the budget exactly at the end of the window.
//
// A window with no length has the whole budget due at once, so the ideal
// rate is the budget itself.
func Project(consumedHours, totalHours float64, w model.WindowStatus) model.BurnRate {
	ideal := totalHours
	if w.TotalMonths > 0 {
		ideal = totalHours / w.TotalMonths
	}

	elapsed := w.ElapsedMonths
	if elapsed < MinElapsedMonths {
		elapsed = MinElapsedMonths
	}
	actual := consumedHours / elapsed

	return model.BurnRate{
		IdealMonthlyBurn: ideal,
		ActualBurnRate:   actual,
		IsOverBudget:     actual > ideal*OverBudgetTolerance,
	}
}
