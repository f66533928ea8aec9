package analytics

import (
	"testing"
	"time"

	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(category expense.Category, date time.Time, cents int64) expense.Expense {
	return expense.Expense{
		Category: category,
		Date:     date,
		Amount:   money.FromCents(cents),
	}
}

var march = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
var april = time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)

func TestTotalSpending(t *testing.T) {
	assert.Equal(t, money.Money(0), TotalSpending(nil))
	assert.Equal(t, money.Money(0), TotalSpending([]expense.Expense{}))

	records := []expense.Expense{
		record(expense.CategoryFood, march, 100000),
		record(expense.CategoryFood, march, 200000),
		record(expense.CategoryHealth, april, 50),
	}
	assert.Equal(t, money.Money(300050), TotalSpending(records))
}

func TestSpendingByCategory(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryFood, march, 100000),
		record(expense.CategoryFood, march, 200000),
		record(expense.CategoryFood, march, 120000),
		record(expense.CategoryTransportation, march, 50000),
	}

	byCategory := SpendingByCategory(records)

	// Only categories actually present appear.
	require.Len(t, byCategory, 2)
	assert.Equal(t, CategoryStats{Total: 420000, Count: 3}, byCategory[expense.CategoryFood])
	assert.Equal(t, CategoryStats{Total: 50000, Count: 1}, byCategory[expense.CategoryTransportation])
	assert.Equal(t, money.Money(140000), byCategory[expense.CategoryFood].Average())
}

func TestMonthlySpending(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryFood, march, 1000),
		record(expense.CategoryShopping, march, 2000),
		record(expense.CategoryFood, april, 4000),
	}

	byMonth := MonthlySpending(records)

	require.Len(t, byMonth, 2)
	assert.Equal(t, money.Money(3000), byMonth["2024-03"])
	assert.Equal(t, money.Money(4000), byMonth["2024-04"])
}

func TestMonthlyTotals_SortedAscending(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryFood, april, 4000),
		record(expense.CategoryFood, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), 1000),
		record(expense.CategoryFood, march, 3000),
	}

	totals := MonthlyTotals(records)

	require.Len(t, totals, 3)
	assert.Equal(t, "2023-12", totals[0].Month)
	assert.Equal(t, "2024-03", totals[1].Month)
	assert.Equal(t, "2024-04", totals[2].Month)
}

func TestTopCategories(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryFood, march, 100000),
		record(expense.CategoryFood, march, 200000),
		record(expense.CategoryFood, march, 120000),
		record(expense.CategoryTransportation, march, 50000),
	}

	top := TopCategories(records, 2)

	require.Len(t, top, 2)
	assert.Equal(t, expense.CategoryFood, top[0].Category)
	assert.Equal(t, money.Money(420000), top[0].Total)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, money.Money(140000), top[0].Average)
	assert.Equal(t, expense.CategoryTransportation, top[1].Category)
	assert.Equal(t, money.Money(50000), top[1].Total)
	assert.Equal(t, money.Money(50000), top[1].Average)
}

func TestTopCategories_Truncates(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryFood, march, 3000),
		record(expense.CategoryHealth, march, 2000),
		record(expense.CategoryShopping, march, 1000),
	}

	top := TopCategories(records, 2)
	require.Len(t, top, 2)
	assert.Equal(t, expense.CategoryFood, top[0].Category)
	assert.Equal(t, expense.CategoryHealth, top[1].Category)
}

func TestTopCategories_TiesKeepFirstAppearanceOrder(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryShopping, march, 1000),
		record(expense.CategoryFood, march, 1000),
		record(expense.CategoryHealth, march, 1000),
	}

	top := TopCategories(records, 3)

	require.Len(t, top, 3)
	assert.Equal(t, expense.CategoryShopping, top[0].Category)
	assert.Equal(t, expense.CategoryFood, top[1].Category)
	assert.Equal(t, expense.CategoryHealth, top[2].Category)
}

func TestFilterByDateRange_InclusiveBounds(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	records := []expense.Expense{
		record(expense.CategoryFood, start, 1000),
		record(expense.CategoryFood, end, 2000),
		record(expense.CategoryFood, start.AddDate(0, 0, -1), 4000),
		record(expense.CategoryFood, end.AddDate(0, 0, 1), 8000),
	}

	filtered := FilterByDateRange(records, start, end)

	require.Len(t, filtered, 2)
	assert.Equal(t, money.Money(3000), TotalSpending(filtered))
}

func TestFilterByMonth(t *testing.T) {
	records := []expense.Expense{
		record(expense.CategoryFood, march, 1000),
		record(expense.CategoryFood, april, 2000),
	}

	filtered := FilterByMonth(records, "2024-03")
	require.Len(t, filtered, 1)
	assert.Equal(t, money.Money(1000), filtered[0].Amount)
}

func TestMonthKey_ZeroPadsMonth(t *testing.T) {
	assert.Equal(t, "2024-03", MonthKey(march))
	assert.Equal(t, "2023-11", MonthKey(time.Date(2023, time.November, 30, 23, 59, 0, 0, time.UTC)))
}
