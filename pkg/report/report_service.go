package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/pkg/analytics"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
)

const monthLayout = "2006-01"

// ListProvider is the read side of the expense store the projector consumes.
type ListProvider interface {
	List() []expense.Expense
}

// SheetsExporter pushes a rendered report to an external spreadsheet and
// returns its URL.
type SheetsExporter interface {
	Export(ctx context.Context, report MonthlyReport) (string, error)
}

type Service interface {
	AvailableMonths() []string
	MonthlyReport(month string) (MonthlyReport, error)
	ExportToSheets(ctx context.Context, month string) (string, error)
}

// ServiceImpl projects reports from a fresh store snapshot on every call;
// nothing is cached between requests.
type ServiceImpl struct {
	store  ListProvider
	sheets SheetsExporter
}

func NewService(store ListProvider, sheets SheetsExporter) *ServiceImpl {
	return &ServiceImpl{store: store, sheets: sheets}
}

// AvailableMonths lists every month with at least one expense, newest first.
func (s *ServiceImpl) AvailableMonths() []string {
	byMonth := analytics.MonthlySpending(s.store.List())
	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

func (s *ServiceImpl) MonthlyReport(month string) (MonthlyReport, error) {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return MonthlyReport{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}

	records := analytics.FilterByMonth(s.store.List(), month)
	if len(records) == 0 {
		return MonthlyReport{}, fmt.Errorf("%w: %s", ErrNoData, month)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})

	total := analytics.TotalSpending(records)
	return MonthlyReport{
		Month:        month,
		Total:        total,
		Count:        len(records),
		Average:      total / money.Money(len(records)),
		ByCategory:   analytics.TopCategories(records, -1),
		Transactions: records,
	}, nil
}

func (s *ServiceImpl) ExportToSheets(ctx context.Context, month string) (string, error) {
	report, err := s.MonthlyReport(month)
	if err != nil {
		return "", err
	}
	url, err := s.sheets.Export(ctx, report)
	if err != nil {
		return "", fmt.Errorf("failed to export report to spreadsheet: %w", err)
	}
	log.Infof("report for %s exported to %s", month, url)
	return url, nil
}
