package mirror

import (
	"context"

	"github.com/spendwise/spendwise/pkg/expense"
)

// Mirror is the durable copy of the expense collection, keyed by the opaque
// user id. The in-memory store stays the source of truth; the mirror only
// receives best-effort writes and serves full reloads.
type Mirror interface {
	Put(ctx context.Context, userUid string, e expense.Expense) error
	Update(ctx context.Context, userUid string, e expense.Expense) error
	Delete(ctx context.Context, userUid string, expenseId string) error
	QueryAll(ctx context.Context, userUid string) ([]expense.Expense, error)
}
