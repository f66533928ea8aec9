package mirror

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spendwise/spendwise/internal/event_bus"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userCtx() context.Context {
	return user.WithUser(context.Background(), user.User{Uid: "user-1"})
}

func testExpense(id string) expense.Expense {
	return expense.Expense{
		ID:        id,
		Category:  expense.CategoryFood,
		Date:      time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Amount:    1000_00,
		CreatedAt: time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatcher_ProcessesEnqueuedOperations(t *testing.T) {
	stub := NewStubMirror()
	dispatcher := NewDispatcher(stub, event_bus.NewEventBus(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.EnqueuePut(userCtx(), testExpense("e-1"))
	dispatcher.EnqueueUpdate(userCtx(), testExpense("e-1"))
	dispatcher.EnqueueDelete(userCtx(), "e-1")

	assert.Eventually(t, func() bool {
		return len(stub.Puts()) == 1 && len(stub.Updates()) == 1 && len(stub.Deletes()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "e-1", stub.Puts()[0].ID)
	assert.Equal(t, "e-1", stub.Deletes()[0])
}

func TestDispatcher_SkipsWithoutUser(t *testing.T) {
	stub := NewStubMirror()
	dispatcher := NewDispatcher(stub, event_bus.NewEventBus(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.EnqueuePut(context.Background(), testExpense("e-1"))

	assert.Never(t, func() bool {
		return len(stub.Puts()) > 0
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	stub := NewStubMirror()
	// No worker running: the queue of 2 fills up and later operations drop.
	dispatcher := NewDispatcher(stub, event_bus.NewEventBus(), 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			dispatcher.EnqueuePut(userCtx(), testExpense("e-1"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
}

func TestDispatcher_PublishesOutcomeEvents(t *testing.T) {
	stub := NewStubMirror()
	stub.Err = assert.AnError
	bus := event_bus.NewEventBus()
	dispatcher := NewDispatcher(stub, bus, 8)

	var mu sync.Mutex
	var outcomes []event_bus.MirrorCompleted
	unsubscribe := event_bus.SubscribeTyped[event_bus.MirrorCompleted](bus, event_bus.MirrorCompletedEvent,
		func(e event_bus.EventT[event_bus.MirrorCompleted]) error {
			mu.Lock()
			defer mu.Unlock()
			outcomes = append(outcomes, e.Data)
			return nil
		})
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Run(ctx)

	dispatcher.EnqueuePut(userCtx(), testExpense("e-1"))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(outcomes) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "put", outcomes[0].Op)
	assert.Equal(t, "e-1", outcomes[0].ExpenseId)
	assert.NotEmpty(t, outcomes[0].Err)
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	dispatcher := NewDispatcher(NewStubMirror(), event_bus.NewEventBus(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- dispatcher.Run(ctx)
	}()

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
