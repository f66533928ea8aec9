package budget

import (
	"math"

	"github.com/spendwise/spendwise/pkg/money"
)

type Status string

const (
	StatusOK       Status = "OK"
	StatusWarning  Status = "WARNING"
	StatusExceeded Status = "EXCEEDED"
)

type AlertType string

const (
	AlertDanger  AlertType = "danger"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

type Alert struct {
	Type    AlertType
	Message string
}

// View is one scope of budget evaluation (all-time or a single month)
// against the shared limit.
type View struct {
	Spent      money.Money
	Remaining  money.Money
	Percentage int
	Status     Status
}

// Overview carries the all-time and current-month views side by side. Both
// are computed with the same formulas; only the record scope differs.
type Overview struct {
	Limit           money.Money
	CurrentMonthKey string
	AllTime         View
	CurrentMonth    View
}

// PercentageUsed returns spent as a share of limit, rounded to the nearest
// integer and capped at 100. A zero limit always yields 0. Because of the
// cap the percentage never signals the degree of overage; use the raw
// spent > limit comparison for that.
func PercentageUsed(spent, limit money.Money) int {
	if limit == 0 {
		return 0
	}
	percentage := float64(spent) / float64(limit) * 100
	if percentage > 100 {
		return 100
	}
	return int(math.Round(percentage))
}

// Remaining is the clamped budget left: never negative, so it cannot be
// used to detect overage.
func Remaining(spent, limit money.Money) money.Money {
	if spent > limit {
		return 0
	}
	return limit - spent
}

// StatusOf classifies a percentage. Boundaries are inclusive: exactly 80 is
// WARNING and exactly 100 is EXCEEDED. The classification is a pure function
// of the current percentage with no memory of prior state.
func StatusOf(percentage int) Status {
	if percentage >= 100 {
		return StatusExceeded
	}
	if percentage >= 80 {
		return StatusWarning
	}
	return StatusOK
}

func evaluate(spent, limit money.Money) View {
	percentage := PercentageUsed(spent, limit)
	return View{
		Spent:      spent,
		Remaining:  Remaining(spent, limit),
		Percentage: percentage,
		Status:     StatusOf(percentage),
	}
}
