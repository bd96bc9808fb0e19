package storage

import (
	"context"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// CreateIncome inserts an income for its owner and returns the stored row.
// The income source rides in the category column.
func (r *Repository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	rec, err := r.createRecord(ctx, core.KindIncome, record{
		Title:       in.Title,
		AmountCents: in.Amount.Cents,
		Category:    in.Source,
		OccurredOn:  in.Date,
		UserID:      in.UserID,
	})
	if err != nil {
		return core.Income{}, err
	}
	return incomeFromRecord(rec), nil
}

// ListIncomes returns the owner's incomes, newest occurrence first.
func (r *Repository) ListIncomes(ctx context.Context, ownerID int64) ([]core.Income, error) {
	recs, err := r.listRecords(ctx, core.KindIncome, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]core.Income, len(recs))
	for i, rec := range recs {
		out[i] = incomeFromRecord(rec)
	}
	return out, nil
}

// DeleteIncome removes the income if ownerID owns it; otherwise a no-op.
func (r *Repository) DeleteIncome(ctx context.Context, id, ownerID int64) error {
	return r.deleteRecord(ctx, core.KindIncome, id, ownerID)
}

func incomeFromRecord(rec record) core.Income {
	return core.Income{
		ID:        rec.ID,
		Title:     rec.Title,
		Amount:    core.Money{Cents: rec.AmountCents},
		Source:    rec.Category,
		Date:      rec.OccurredOn,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
	}
}
