package budget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/event_bus"
	"github.com/spendwise/spendwise/internal/utils"
	"github.com/spendwise/spendwise/pkg/analytics"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
	"github.com/spendwise/spendwise/pkg/notifier"
)

const (
	warningThresholdPercent = 80

	alertSubject     = "Spendwise: 80% Budget Alert"
	demoSubject      = "Spendwise: Expense Added Notification"
	notifyTimeout    = 5 * time.Second
	categoryAlertTop = 3
)

var (
	ErrNegativeLimit = errors.New("budget limit must not be negative")
	ErrNoExpenses    = errors.New("no expenses recorded")
)

// ListProvider is the read side of the expense store the evaluator consumes.
type ListProvider interface {
	List() []expense.Expense
}

type Service interface {
	Limit() money.Money
	SetLimit(limit money.Money) error
	Overview(ctx context.Context) Overview
	Alerts(ctx context.Context) []Alert
	SendDemoNotification(ctx context.Context) error
}

// ServiceImpl owns the process-lifetime budget limit and derives every
// budget view from a fresh store snapshot on each call.
type ServiceImpl struct {
	mu    sync.RWMutex
	limit money.Money
	// notified80 is the one-shot flag for the 80% crossing notification.
	// It resets only when usage drops back below 80%.
	notified80 bool

	store    ListProvider
	clock    utils.Clock
	notifier notifier.Notifier
	bus      *event_bus.EventBus
}

func NewService(defaultLimit money.Money, store ListProvider, clock utils.Clock, n notifier.Notifier, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		limit:    defaultLimit,
		store:    store,
		clock:    clock,
		notifier: n,
		bus:      bus,
	}
}

func (s *ServiceImpl) Limit() money.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limit
}

func (s *ServiceImpl) SetLimit(limit money.Money) error {
	if limit < 0 {
		return ErrNegativeLimit
	}
	s.mu.Lock()
	s.limit = limit
	s.mu.Unlock()
	log.Infof("budget limit set to %s", limit)
	return nil
}

func (s *ServiceImpl) Overview(ctx context.Context) Overview {
	limit := s.Limit()
	records := s.store.List()
	monthKey := analytics.MonthKey(s.clock.Now())

	allTimeSpent := analytics.TotalSpending(records)
	monthSpent := analytics.TotalSpending(analytics.FilterByMonth(records, monthKey))

	return Overview{
		Limit:           limit,
		CurrentMonthKey: monthKey,
		AllTime:         evaluate(allTimeSpent, limit),
		CurrentMonth:    evaluate(monthSpent, limit),
	}
}

// Alerts derives the current alert list from scratch. The current-month
// danger and warning alerts are mutually exclusive; the all-time overage
// alert is independent and can co-occur with either.
func (s *ServiceImpl) Alerts(ctx context.Context) []Alert {
	limit := s.Limit()
	records := s.store.List()
	monthKey := analytics.MonthKey(s.clock.Now())

	totalSpent := analytics.TotalSpending(records)
	monthSpent := analytics.TotalSpending(analytics.FilterByMonth(records, monthKey))
	monthPercentage := PercentageUsed(monthSpent, limit)

	var alerts []Alert
	if monthSpent > limit {
		alerts = append(alerts, Alert{
			Type:    AlertDanger,
			Message: fmt.Sprintf("Current month budget exceeded! You've spent %s of %s", monthSpent, limit),
		})
	} else if monthPercentage >= warningThresholdPercent {
		alerts = append(alerts, Alert{
			Type: AlertWarning,
			Message: fmt.Sprintf("Current month spending is %d%% of budget. %s remaining.",
				monthPercentage, Remaining(monthSpent, limit)),
		})
	}

	if totalSpent > limit {
		alerts = append(alerts, Alert{
			Type:    AlertDanger,
			Message: fmt.Sprintf("Total spending exceeded budget! Over by %s", totalSpent-limit),
		})
	}

	alerts = append(alerts, s.categoryAlerts(records, totalSpent)...)
	return alerts
}

// categoryAlerts flags top-3 categories whose average transaction exceeds
// 1.5x the overall average transaction size.
func (s *ServiceImpl) categoryAlerts(records []expense.Expense, totalSpent money.Money) []Alert {
	if len(records) == 0 || totalSpent == 0 {
		return nil
	}
	overallAverage := totalSpent / money.Money(len(records))

	var alerts []Alert
	for _, category := range analytics.TopCategories(records, categoryAlertTop) {
		if float64(category.Average) <= float64(overallAverage)*1.5 {
			continue
		}
		alerts = append(alerts, Alert{
			Type:    AlertInfo,
			Message: fmt.Sprintf("%s spending average (%s) is above overall average", category.Category, category.Average),
		})
	}
	return alerts
}

// CheckThreshold re-evaluates the current-month percentage after a store
// mutation and publishes a budget alert on the upward 80% crossing, once per
// session. The flag resets when usage drops back below 80%, so a later
// crossing notifies again.
func (s *ServiceImpl) CheckThreshold(ctx context.Context) {
	limit := s.Limit()
	if limit == 0 {
		return
	}
	records := s.store.List()
	monthKey := analytics.MonthKey(s.clock.Now())
	monthSpent := analytics.TotalSpending(analytics.FilterByMonth(records, monthKey))
	percentage := PercentageUsed(monthSpent, limit)

	s.mu.Lock()
	if percentage < warningThresholdPercent {
		s.notified80 = false
		s.mu.Unlock()
		return
	}
	if s.notified80 {
		s.mu.Unlock()
		return
	}
	s.notified80 = true
	s.mu.Unlock()

	message := fmt.Sprintf(
		"Budget Alert!\n\nYou have reached 80%% of your monthly budget.\n\n"+
			"Current Month Spending: %s\nBudget Limit: %s\nRemaining: %s\n\nPlease review your expenses.",
		monthSpent, limit, Remaining(monthSpent, limit))

	// Fire-and-forget: the mutation that triggered the crossing never waits
	// for delivery and failure only reaches the bus.
	go s.publish(context.WithoutCancel(ctx), message, alertSubject)
}

// SendDemoNotification publishes a notification for the newest expense.
// Unlike every other external call, its failure is surfaced to the caller.
func (s *ServiceImpl) SendDemoNotification(ctx context.Context) error {
	records := s.store.List()
	if len(records) == 0 {
		return ErrNoExpenses
	}
	newest := records[0]
	limit := s.Limit()
	remaining := Remaining(analytics.TotalSpending(records), limit)

	message := fmt.Sprintf("New expense added!\nCategory: %s\nAmount: %s\nNote: %s\nDate: %s\nBudget left: %s",
		newest.Category, newest.Amount, newest.Note, newest.Date.Format("2006-01-02"), remaining)

	if err := s.notifier.Publish(ctx, message, demoSubject); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, message, subject string) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	err := s.notifier.Publish(ctx, message, subject)
	if err != nil {
		log.Warnf("budget alert notification failed: %v", err)
	}

	outcome := event_bus.NotificationSent{Subject: subject}
	if err != nil {
		outcome.Err = err.Error()
	}
	if busErr := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.NotificationSentEvent, outcome)); busErr != nil {
		log.Warnf("notification outcome handlers failed: %v", busErr)
	}
}
