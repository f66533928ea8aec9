package expense

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spendwise/spendwise/internal/event_bus"
	"github.com/spendwise/spendwise/internal/utils"
	"github.com/spendwise/spendwise/pkg/money"
	"github.com/spendwise/spendwise/pkg/user"
)

// Syncer mirrors local mutations to the external persistence collaborator.
// Calls are fire-and-forget: they never block, their failures are never
// surfaced to the mutating caller, and the in-memory state is never rolled
// back.
type Syncer interface {
	EnqueuePut(ctx context.Context, e Expense)
	EnqueueUpdate(ctx context.Context, e Expense)
	EnqueueDelete(ctx context.Context, id string)
}

// Loader reads back the externally mirrored records for a user.
type Loader interface {
	QueryAll(ctx context.Context, userUid string) ([]Expense, error)
}

// Store is the in-memory ordered expense collection for a session. It is the
// local source of truth: every aggregation consumer recomputes from its
// snapshot, and the mirror only ever trails it.
//
// Records are kept newest-first: Add prepends. List returns store order, not
// date order.
type Store struct {
	mu       sync.RWMutex
	expenses []Expense

	clock  utils.Clock
	syncer Syncer
	loader Loader
	bus    *event_bus.EventBus
}

func NewStore(clock utils.Clock, syncer Syncer, loader Loader, bus *event_bus.EventBus) *Store {
	return &Store{
		clock:  clock,
		syncer: syncer,
		loader: loader,
		bus:    bus,
	}
}

// Add validates the input, constructs a record with a fresh id and creation
// timestamp, and prepends it to the collection. The mirror write is enqueued
// fire-and-forget after the local mutation succeeds.
func (s *Store) Add(ctx context.Context, input Input) (Expense, error) {
	amount, err := money.Parse(input.Amount)
	if err != nil {
		return Expense{}, fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}
	if !input.Category.Valid() {
		return Expense{}, fmt.Errorf("%w: unknown category %q", ErrValidation, input.Category)
	}
	if input.Date.IsZero() {
		return Expense{}, fmt.Errorf("%w: date is required", ErrValidation)
	}

	e := Expense{
		ID:        uuid.NewString(),
		Category:  input.Category,
		Date:      input.Date,
		Amount:    amount,
		Note:      input.Note,
		CreatedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.expenses = append([]Expense{e}, s.expenses...)
	s.mu.Unlock()

	s.syncer.EnqueuePut(ctx, e)
	s.publishChanged(ctx, "add", e.ID)
	return e, nil
}

// Update merges the patch into the record with the given id. A nil Amount
// retains the previous amount; UpdatedAt is stamped on every call. An
// unknown id is a silent no-op: found is false and err is nil.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (Expense, bool, error) {
	var amount *money.Money
	if patch.Amount != nil {
		parsed, err := money.Parse(*patch.Amount)
		if err != nil {
			return Expense{}, false, fmt.Errorf("%w: amount must be a positive number", ErrValidation)
		}
		amount = &parsed
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return Expense{}, false, fmt.Errorf("%w: unknown category %q", ErrValidation, *patch.Category)
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Debugf("update of unknown expense %s ignored", id)
		return Expense{}, false, nil
	}
	e := s.expenses[idx]
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if amount != nil {
		e.Amount = *amount
	}
	if patch.Note != nil {
		e.Note = *patch.Note
	}
	now := s.clock.Now()
	e.UpdatedAt = &now
	s.expenses[idx] = e
	s.mu.Unlock()

	s.syncer.EnqueueUpdate(ctx, e)
	s.publishChanged(ctx, "update", e.ID)
	return e, true, nil
}

// Delete removes the record with the given id. An unknown id is a silent
// no-op and deleting twice is not an error.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		log.Debugf("delete of unknown expense %s ignored", id)
		return false
	}
	s.expenses = append(s.expenses[:idx], s.expenses[idx+1:]...)
	s.mu.Unlock()

	s.syncer.EnqueueDelete(ctx, id)
	s.publishChanged(ctx, "delete", id)
	return true
}

// List returns a snapshot copy of the collection in store order
// (newest-first by insertion, not re-sorted by date).
func (s *Store) List() []Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]Expense, len(s.expenses))
	copy(snapshot, s.expenses)
	return snapshot
}

// Hydrate replaces the collection with the mirrored records of the current
// user. It is an explicit capability, not part of the startup path.
func (s *Store) Hydrate(ctx context.Context) (int, error) {
	uid, err := user.CurrentUid(ctx)
	if err != nil {
		return 0, err
	}
	loaded, err := s.loader.QueryAll(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("failed to load mirrored expenses: %w", err)
	}

	s.mu.Lock()
	s.expenses = loaded
	s.mu.Unlock()

	log.Infof("hydrated %d expenses for user %s", len(loaded), uid)
	s.publishChanged(ctx, "hydrate", "")
	return len(loaded), nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for idx, e := range s.expenses {
		if e.ID == id {
			return idx
		}
	}
	return -1
}

func (s *Store) publishChanged(ctx context.Context, op, id string) {
	event := event_bus.NewEvent(ctx, event_bus.ExpenseChangedEvent, event_bus.ExpenseChanged{
		Op:        op,
		ExpenseId: id,
	})
	if err := s.bus.Publish(event); err != nil {
		log.Warnf("expense change handlers failed: %v", err)
	}
}
