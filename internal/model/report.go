package model

import "time"

// BudgetStatus is the consumed/remaining view of a contract's hour budget.
type BudgetStatus struct {
	TotalHours      float64
	ConsumedHours   float64
	RemainingHours  float64 // negative once the budget is exceeded
	ProgressPercent float64 // 0-100
}

// WindowStatus is the position of an instant inside a contract window.
type WindowStatus struct {
	ElapsedMonths float64
	TotalMonths   float64
	DaysRemaining int
	NotStarted    bool
}

// BurnRate compares actual monthly consumption to the even-spend pace.
type BurnRate struct {
	IdealMonthlyBurn float64
	ActualBurnRate   float64
	IsOverBudget     bool
}

// ContractReport is the assembled consumption and pace report for one contract.
type ContractReport struct {
	ContractID       int64   `json:"contractId,string" yaml:"contractId"`
	ContractTitle    string  `json:"contractTitle" yaml:"contractTitle"`
	CompanyName      string  `json:"companyName" yaml:"companyName"`
	TotalHours       float64 `json:"totalHours" yaml:"totalHours"`
	ConsumedHours    float64 `json:"consumedHours" yaml:"consumedHours"`
	RemainingHours   float64 `json:"remainingBalance" yaml:"remainingBalance"`
	ProgressPercent  float64 `json:"progressPercent" yaml:"progressPercent"`
	IdealMonthlyBurn float64 `json:"idealMonthlyBurn" yaml:"idealMonthlyBurn"`
	ActualBurnRate   float64 `json:"actualBurnRate" yaml:"actualBurnRate"`
	DaysRemaining    int     `json:"daysRemaining" yaml:"daysRemaining"`
	IsOverBudget     bool    `json:"isOverBudget" yaml:"isOverBudget"`

	ElapsedMonths float64   `json:"elapsedMonths" yaml:"elapsedMonths"`
	TotalMonths   float64   `json:"totalMonths" yaml:"totalMonths"`
	NotStarted    bool      `json:"notStarted,omitempty" yaml:"notStarted,omitempty"`
	GeneratedAt   time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// ZeroBudget reports whether the contract was sold with no hours.
func (r ContractReport) ZeroBudget() bool {
	return r.TotalHours <= 0
}

// DegenerateWindow reports whether the contract window has no length.
func (r ContractReport) DegenerateWindow() bool {
	return r.TotalMonths <= 0
}

// Exhausted reports whether consumption has reached or passed the budget.
func (r ContractReport) Exhausted() bool {
	return r.RemainingHours <= 0 && r.ConsumedHours > 0
}
