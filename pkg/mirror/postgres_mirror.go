package mirror

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spendwise/spendwise/pkg/expense"
	"github.com/spendwise/spendwise/pkg/money"
)

type PostgresMirror struct {
	db *pgxpool.Pool
}

func NewPostgresMirror(db *pgxpool.Pool) *PostgresMirror {
	return &PostgresMirror{db: db}
}

func (m *PostgresMirror) Put(ctx context.Context, userUid string, e expense.Expense) error {
	const insertExpense = `
		INSERT INTO expense_mirror (id, user_uid, category, expense_date, amount_cents, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id)
		DO UPDATE SET
			category = EXCLUDED.category,
			expense_date = EXCLUDED.expense_date,
			amount_cents = EXCLUDED.amount_cents,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at`

	_, err := m.db.Exec(ctx, insertExpense,
		e.ID, userUid, string(e.Category), e.Date, e.Amount.Cents(), e.Note, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to put expense %s: %w", e.ID, err)
	}
	return nil
}

func (m *PostgresMirror) Update(ctx context.Context, userUid string, e expense.Expense) error {
	// An update for a row the mirror never received degrades to a put, so a
	// previously dropped write does not strand the record forever.
	return m.Put(ctx, userUid, e)
}

func (m *PostgresMirror) Delete(ctx context.Context, userUid string, expenseId string) error {
	_, err := m.db.Exec(ctx, "DELETE FROM expense_mirror WHERE id = $1 AND user_uid = $2", expenseId, userUid)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseId, err)
	}
	return nil
}

func (m *PostgresMirror) QueryAll(ctx context.Context, userUid string) ([]expense.Expense, error) {
	const selectExpenses = `
		SELECT id, category, expense_date, amount_cents, note, created_at, updated_at
		FROM expense_mirror
		WHERE user_uid = $1
		ORDER BY created_at DESC, id`

	rows, err := m.db.Query(ctx, selectExpenses, userUid)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses for user: %w", err)
	}
	defer rows.Close()

	var expenses []expense.Expense
	for rows.Next() {
		var e expense.Expense
		var category string
		var amountCents int64
		if err := rows.Scan(&e.ID, &category, &e.Date, &amountCents, &e.Note, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		e.Category = expense.Category(category)
		e.Amount = money.FromCents(amountCents)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expense rows: %w", err)
	}
	return expenses, nil
}
