package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/event_bus"
	"github.com/spendwise/spendwise/internal/utils"
	"github.com/spendwise/spendwise/pkg/budget"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/mirror"
	"github.com/spendwise/spendwise/pkg/money"
	"github.com/spendwise/spendwise/pkg/notifier"
	"github.com/spendwise/spendwise/pkg/report"
	"github.com/spendwise/spendwise/pkg/sheets"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	MirrorDispatcher *mirror.Dispatcher

	Notifier     notifier.Notifier
	AmqpNotifier *notifier.AmqpNotifier

	ExpenseStore   *expense.Store
	ExpenseHandler *expense.Handler

	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	SheetsExporter report.SheetsExporter
	ReportService  *report.ServiceImpl
	CsvRenderer    *report.CsvRendererImpl
	ReportHandler  *report.Handler
}

// BuildDependencies initializes and wires all application services and
// handlers. db may be nil when the mirror is disabled.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	var syncer expense.Syncer = noopSyncer{}
	var loader expense.Loader = noopLoader{}
	if db != nil {
		postgresMirror := mirror.NewPostgresMirror(db)
		deps.MirrorDispatcher = mirror.NewDispatcher(postgresMirror, deps.Bus, cfg.Mirror.QueueSize)
		syncer = deps.MirrorDispatcher
		loader = postgresMirror
	}

	deps.ExpenseStore = expense.NewStore(deps.Clock, syncer, loader, deps.Bus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseStore)

	deps.Notifier = notifier.Noop{}
	if cfg.Notifier.Enabled {
		amqpNotifier, err := notifier.NewAmqpNotifier(cfg.Notifier.URL, cfg.Notifier.Exchange, cfg.Notifier.Queue)
		if err != nil {
			return nil, fmt.Errorf("failed to connect notifier: %w", err)
		}
		deps.AmqpNotifier = amqpNotifier
		deps.Notifier = amqpNotifier
	}

	defaultLimit, err := money.ParseNonNegative(cfg.Budget.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid default budget limit %q: %w", cfg.Budget.DefaultLimit, err)
	}

	deps.BudgetService = budget.NewService(defaultLimit, deps.ExpenseStore, deps.Clock, deps.Notifier, deps.Bus)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService, deps.ExpenseStore)

	// Every store mutation re-evaluates the 80% threshold.
	event_bus.SubscribeTyped[event_bus.ExpenseChanged](deps.Bus, event_bus.ExpenseChangedEvent,
		func(e event_bus.EventT[event_bus.ExpenseChanged]) error {
			deps.BudgetService.CheckThreshold(e.Context())
			return nil
		})

	deps.SheetsExporter = disabledSheetsExporter{}
	if cfg.Sheets.Enabled {
		exporter, err := sheets.NewExporter(context.Background(), cfg.Sheets)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets exporter: %w", err)
		}
		deps.SheetsExporter = exporter
	}

	deps.ReportService = report.NewService(deps.ExpenseStore, deps.SheetsExporter)
	deps.CsvRenderer = report.NewCsvRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvRenderer)

	return deps, nil
}

// noopSyncer and noopLoader back the store when the mirror is disabled.
type noopSyncer struct{}

func (noopSyncer) EnqueuePut(ctx context.Context, e expense.Expense)    {}
func (noopSyncer) EnqueueUpdate(ctx context.Context, e expense.Expense) {}
func (noopSyncer) EnqueueDelete(ctx context.Context, id string)         {}

type noopLoader struct{}

func (noopLoader) QueryAll(ctx context.Context, userUid string) ([]expense.Expense, error) {
	log.Debug("mirror disabled, hydrate returns no records")
	return nil, nil
}

type disabledSheetsExporter struct{}

func (disabledSheetsExporter) Export(ctx context.Context, monthlyReport report.MonthlyReport) (string, error) {
	return "", fmt.Errorf("spreadsheet export is not configured")
}
