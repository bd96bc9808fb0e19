package storage

import (
	"context"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// CreateExpense inserts an expense for its owner and returns the stored row.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	rec, err := r.createRecord(ctx, core.KindExpense, record{
		Title:       e.Title,
		AmountCents: e.Amount.Cents,
		Category:    e.Category,
		OccurredOn:  e.Date,
		UserID:      e.UserID,
	})
	if err != nil {
		return core.Expense{}, err
	}
	return expenseFromRecord(rec), nil
}

// ListExpenses returns the owner's expenses, newest occurrence first.
func (r *Repository) ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error) {
	recs, err := r.listRecords(ctx, core.KindExpense, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, len(recs))
	for i, rec := range recs {
		out[i] = expenseFromRecord(rec)
	}
	return out, nil
}

// DeleteExpense removes the expense if ownerID owns it; otherwise a no-op.
func (r *Repository) DeleteExpense(ctx context.Context, id, ownerID int64) error {
	return r.deleteRecord(ctx, core.KindExpense, id, ownerID)
}

func expenseFromRecord(rec record) core.Expense {
	return core.Expense{
		ID:        rec.ID,
		Title:     rec.Title,
		Amount:    core.Money{Cents: rec.AmountCents},
		Category:  rec.Category,
		Date:      rec.OccurredOn,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
	}
}
