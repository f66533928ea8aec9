package report

import (
	"errors"

	"github.com/spendwise/spendwise/pkg/analytics"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
)

var (
	ErrInvalidMonth = errors.New("month must be in YYYY-MM format")
	ErrNoData       = errors.New("no expenses recorded for month")
)

// MonthlyReport is the full projection for one YYYY-MM month: totals, the
// per-category ranking and the month's transactions newest date first.
type MonthlyReport struct {
	Month        string
	Total        money.Money
	Count        int
	Average      money.Money
	ByCategory   []analytics.CategoryTotal
	Transactions []expense.Expense
}
