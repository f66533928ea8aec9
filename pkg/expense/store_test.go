package expense

import (
	"context"
	"testing"
	"time"

	"github.com/spendwise/spendwise/internal/event_bus"
	"github.com/spendwise/spendwise/internal/utils"
	"github.com/spendwise/spendwise/pkg/money"
	"github.com/spendwise/spendwise/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func setup() (*Store, *StubSyncer, *StubLoader, *utils.MockClock) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)}
	syncer := NewStubSyncer()
	loader := NewStubLoader()
	store := NewStore(clock, syncer, loader, event_bus.NewEventBus())
	return store, syncer, loader, clock
}

func TestStore_Add(t *testing.T) {
	store, syncer, _, clock := setup()
	ctx := context.Background()

	// given
	before := store.List()

	// when
	created, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "1000", Note: "groceries"})

	// then
	require.NoError(t, err)
	after := store.List()
	assert.Equal(t, len(before)+1, len(after))
	assert.Equal(t, money.Money(100000), created.Amount)
	assert.Equal(t, CategoryFood, created.Category)
	assert.Equal(t, clock.FixedNow, created.CreatedAt)
	assert.Nil(t, created.UpdatedAt)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, syncer.Puts, 1)
	assert.Equal(t, created.ID, syncer.Puts[0].ID)
}

func TestStore_Add_PrependsNewestFirst(t *testing.T) {
	store, _, _, _ := setup()
	ctx := context.Background()

	first, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "10"})
	require.NoError(t, err)
	second, err := store.Add(ctx, Input{Category: CategoryHealth, Date: testDate.AddDate(0, 0, -5), Amount: "20"})
	require.NoError(t, err)

	listed := store.List()
	require.Len(t, listed, 2)
	// Store order is insertion order, newest first, not date order.
	assert.Equal(t, second.ID, listed[0].ID)
	assert.Equal(t, first.ID, listed[1].ID)
}

func TestStore_Add_UniqueIds(t *testing.T) {
	store, _, _, _ := setup()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		created, err := store.Add(ctx, Input{Category: CategoryOther, Date: testDate, Amount: "1.00"})
		require.NoError(t, err)
		assert.False(t, seen[created.ID])
		seen[created.ID] = true
	}
}

func TestStore_Add_Validation(t *testing.T) {
	store, syncer, _, _ := setup()
	ctx := context.Background()

	tests := []struct {
		name  string
		input Input
	}{
		{name: "zero amount", input: Input{Category: CategoryFood, Date: testDate, Amount: "0"}},
		{name: "negative amount", input: Input{Category: CategoryFood, Date: testDate, Amount: "-5"}},
		{name: "non-numeric amount", input: Input{Category: CategoryFood, Date: testDate, Amount: "abc"}},
		{name: "missing amount", input: Input{Category: CategoryFood, Date: testDate}},
		{name: "unknown category", input: Input{Category: "Gambling", Date: testDate, Amount: "10"}},
		{name: "missing date", input: Input{Category: CategoryFood, Amount: "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Add(ctx, tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, store.List())
	assert.Empty(t, syncer.Puts)
}

func TestStore_Update_RoundTrip(t *testing.T) {
	store, syncer, _, clock := setup()
	ctx := context.Background()

	created, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "100"})
	require.NoError(t, err)

	clock.SetNow(clock.FixedNow.Add(time.Minute))
	newAmount := "250.50"
	updated, found, err := store.Update(ctx, created.ID, Patch{Amount: &newAmount})

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, money.Money(25050), updated.Amount)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	listed := store.List()
	require.Len(t, listed, 1)
	assert.Equal(t, money.Money(25050), listed[0].Amount)
	assert.Len(t, syncer.Updates, 1)
}

func TestStore_Update_RetainsAmountWhenAbsent(t *testing.T) {
	store, _, _, _ := setup()
	ctx := context.Background()

	created, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "100", Note: "old"})
	require.NoError(t, err)

	note := "new"
	updated, found, err := store.Update(ctx, created.ID, Patch{Note: &note})

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, money.Money(10000), updated.Amount)
	assert.Equal(t, "new", updated.Note)
	require.NotNil(t, updated.UpdatedAt)
}

func TestStore_Update_UnknownIdIsSilentNoop(t *testing.T) {
	store, syncer, _, _ := setup()
	ctx := context.Background()

	_, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "100"})
	require.NoError(t, err)

	amount := "200"
	_, found, err := store.Update(ctx, "no-such-id", Patch{Amount: &amount})

	// No error on unknown id, just the found flag.
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Len(t, store.List(), 1)
	assert.Equal(t, money.Money(10000), store.List()[0].Amount)
	assert.Empty(t, syncer.Updates)
}

func TestStore_Update_RejectsNonPositiveAmount(t *testing.T) {
	store, _, _, _ := setup()
	ctx := context.Background()

	created, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "100"})
	require.NoError(t, err)

	zero := "0"
	_, _, err = store.Update(ctx, created.ID, Patch{Amount: &zero})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, money.Money(10000), store.List()[0].Amount)
	assert.Nil(t, store.List()[0].UpdatedAt)
}

func TestStore_Delete_Idempotent(t *testing.T) {
	store, syncer, _, _ := setup()
	ctx := context.Background()

	created, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "100"})
	require.NoError(t, err)

	assert.True(t, store.Delete(ctx, created.ID))
	assert.Empty(t, store.List())

	// Deleting again is a no-op: size unchanged, no error surface.
	assert.False(t, store.Delete(ctx, created.ID))
	assert.Empty(t, store.List())
	assert.Len(t, syncer.Deletes, 1)
}

func TestStore_Hydrate(t *testing.T) {
	store, _, loader, clock := setup()
	ctx := user.WithUser(context.Background(), user.User{Uid: "user-1"})

	_, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "100"})
	require.NoError(t, err)

	loader.Records = []Expense{
		{ID: "m-1", Category: CategoryShopping, Date: testDate, Amount: 5000, CreatedAt: clock.FixedNow},
		{ID: "m-2", Category: CategoryHealth, Date: testDate, Amount: 2500, CreatedAt: clock.FixedNow},
	}

	count, err := store.Hydrate(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	listed := store.List()
	require.Len(t, listed, 2)
	assert.Equal(t, "m-1", listed[0].ID)
}

func TestStore_Hydrate_RequiresUser(t *testing.T) {
	store, _, _, _ := setup()

	_, err := store.Hydrate(context.Background())
	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestStore_PublishesChangeEvents(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)}
	bus := event_bus.NewEventBus()
	store := NewStore(clock, NewStubSyncer(), NewStubLoader(), bus)

	var ops []string
	unsubscribe := event_bus.SubscribeTyped[event_bus.ExpenseChanged](bus, event_bus.ExpenseChangedEvent,
		func(e event_bus.EventT[event_bus.ExpenseChanged]) error {
			ops = append(ops, e.Data.Op)
			return nil
		})
	defer unsubscribe()

	ctx := context.Background()
	created, err := store.Add(ctx, Input{Category: CategoryFood, Date: testDate, Amount: "10"})
	require.NoError(t, err)
	note := "n"
	_, _, err = store.Update(ctx, created.ID, Patch{Note: &note})
	require.NoError(t, err)
	store.Delete(ctx, created.ID)

	assert.Equal(t, []string{"add", "update", "delete"}, ops)
}
