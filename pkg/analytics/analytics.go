// Package analytics holds the pure aggregation functions of the tracker.
// Every function recomputes from the full snapshot it is given; nothing here
// caches or mutates.
package analytics

import (
	"sort"
	"time"

	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
)

const monthKeyLayout = "2006-01"

// CategoryStats is the per-category aggregate. Average is derived on demand
// rather than stored.
type CategoryStats struct {
	Total money.Money
	Count int
}

// Average is the mean transaction size for the category, in cents.
func (s CategoryStats) Average() money.Money {
	if s.Count == 0 {
		return 0
	}
	return s.Total / money.Money(s.Count)
}

// CategoryTotal is a ranked per-category entry for top-N views.
type CategoryTotal struct {
	Category expense.Category
	Total    money.Money
	Count    int
	Average  money.Money
}

// MonthlyTotal is one month's spending, keyed YYYY-MM.
type MonthlyTotal struct {
	Month string
	Total money.Money
}

// MonthKey derives the YYYY-MM key (zero-padded month) for a date.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// TotalSpending sums all amounts. Empty input yields 0.
func TotalSpending(records []expense.Expense) money.Money {
	var total money.Money
	for _, e := range records {
		total += e.Amount
	}
	return total
}

// SpendingByCategory maps each category present in the records to its total
// and count. Categories with no records do not appear; there is no
// zero-filling.
func SpendingByCategory(records []expense.Expense) map[expense.Category]CategoryStats {
	byCategory := make(map[expense.Category]CategoryStats)
	for _, e := range records {
		stats := byCategory[e.Category]
		stats.Total += e.Amount
		stats.Count++
		byCategory[e.Category] = stats
	}
	return byCategory
}

// MonthlySpending sums amounts per YYYY-MM month key of each record's date.
func MonthlySpending(records []expense.Expense) map[string]money.Money {
	byMonth := make(map[string]money.Money)
	for _, e := range records {
		byMonth[MonthKey(e.Date)] += e.Amount
	}
	return byMonth
}

// MonthlyTotals returns the per-month totals sorted ascending by month key.
// Lexical order of YYYY-MM equals chronological order.
func MonthlyTotals(records []expense.Expense) []MonthlyTotal {
	byMonth := MonthlySpending(records)
	totals := make([]MonthlyTotal, 0, len(byMonth))
	for month, total := range byMonth {
		totals = append(totals, MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month < totals[j].Month
	})
	return totals
}

// TopCategories ranks categories by total descending and truncates to limit.
// Ties keep the order of first appearance in the records; no secondary key
// is defined.
func TopCategories(records []expense.Expense, limit int) []CategoryTotal {
	byCategory := SpendingByCategory(records)

	// Build in first-appearance order so the sort below is stable on ties.
	seen := make(map[expense.Category]bool, len(byCategory))
	ranked := make([]CategoryTotal, 0, len(byCategory))
	for _, e := range records {
		if seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		stats := byCategory[e.Category]
		ranked = append(ranked, CategoryTotal{
			Category: e.Category,
			Total:    stats.Total,
			Count:    stats.Count,
			Average:  stats.Average(),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// FilterByDateRange keeps records whose date falls within [start, end],
// bounds inclusive.
func FilterByDateRange(records []expense.Expense, start, end time.Time) []expense.Expense {
	filtered := make([]expense.Expense, 0, len(records))
	for _, e := range records {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// FilterByMonth keeps records whose date falls in the given YYYY-MM month.
func FilterByMonth(records []expense.Expense, month string) []expense.Expense {
	filtered := make([]expense.Expense, 0, len(records))
	for _, e := range records {
		if MonthKey(e.Date) == month {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
