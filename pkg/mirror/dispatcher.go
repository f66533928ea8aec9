package mirror

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/event_bus"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/user"
)

const opTimeout = 5 * time.Second

type operation struct {
	op        string
	userUid   string
	expense   expense.Expense
	expenseId string
}

// Dispatcher decouples store mutations from mirror writes. Enqueue never
// blocks the caller: operations without a user are skipped and operations
// that do not fit the queue are dropped, both without surfacing an error.
type Dispatcher struct {
	mirror Mirror
	bus    *event_bus.EventBus
	queue  chan operation
}

var _ expense.Syncer = (*Dispatcher)(nil)

func NewDispatcher(mirror Mirror, bus *event_bus.EventBus, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Dispatcher{
		mirror: mirror,
		bus:    bus,
		queue:  make(chan operation, queueSize),
	}
}

func (d *Dispatcher) EnqueuePut(ctx context.Context, e expense.Expense) {
	d.enqueue(ctx, operation{op: "put", expense: e, expenseId: e.ID})
}

func (d *Dispatcher) EnqueueUpdate(ctx context.Context, e expense.Expense) {
	d.enqueue(ctx, operation{op: "update", expense: e, expenseId: e.ID})
}

func (d *Dispatcher) EnqueueDelete(ctx context.Context, expenseId string) {
	d.enqueue(ctx, operation{op: "delete", expenseId: expenseId})
}

func (d *Dispatcher) enqueue(ctx context.Context, op operation) {
	userUid, err := user.CurrentUid(ctx)
	if err != nil {
		log.Debugf("skipping mirror %s for expense %s: no user in context", op.op, op.expenseId)
		return
	}
	op.userUid = userUid

	select {
	case d.queue <- op:
	default:
		log.Warnf("mirror queue full, dropping %s for expense %s", op.op, op.expenseId)
	}
}

// Run processes queued operations until ctx is cancelled. Operations still
// in the queue at cancellation are discarded.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-d.queue:
			d.process(ctx, op)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, op operation) {
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
	defer cancel()

	var err error
	switch op.op {
	case "put":
		err = d.mirror.Put(opCtx, op.userUid, op.expense)
	case "update":
		err = d.mirror.Update(opCtx, op.userUid, op.expense)
	case "delete":
		err = d.mirror.Delete(opCtx, op.userUid, op.expenseId)
	}
	if err != nil {
		log.Warnf("mirror %s for expense %s failed: %v", op.op, op.expenseId, err)
	}

	outcome := event_bus.MirrorCompleted{Op: op.op, ExpenseId: op.expenseId}
	if err != nil {
		outcome.Err = err.Error()
	}
	if busErr := d.bus.Publish(event_bus.NewEvent(opCtx, event_bus.MirrorCompletedEvent, outcome)); busErr != nil {
		log.Warnf("mirror outcome handlers failed: %v", busErr)
	}
}
