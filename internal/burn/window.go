package burn

import (
	"math"
	"time"

	"github.com/theirongolddev/hburn/internal/model"
)

const (
	// DaysPerMonth is the average month length used for every month conversion.
	DaysPerMonth = 30.44

	// MinElapsedMonths keeps the actual burn rate from spiking while a
	// contract is younger than half a month or has not started yet.
	MinElapsedMonths = 0.5
)

const day = 24 * time.Hour

// Window locates now inside the contract window [start, end].
func Window(start, end, now time.Time) model.WindowStatus {
	totalDays := days(end.Sub(start))
	elapsedDays := days(now.Sub(start))

	remaining := math.Ceil(days(end.Sub(now)))
	if remaining < 0 {
		remaining = 0
	}

	return model.WindowStatus{
		ElapsedMonths: math.Max(elapsedDays/DaysPerMonth, MinElapsedMonths),
		TotalMonths:   totalDays / DaysPerMonth,
		DaysRemaining: int(remaining),
		NotStarted:    now.Before(start),
	}
}

func days(d time.Duration) float64 {
	return float64(d) / float64(day)
}
