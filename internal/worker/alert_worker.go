// Package worker evaluates budget ceilings against month-to-date spending
// whenever a record mutation event arrives.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/events"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/report"
)

// TotalsStore is the slice of the repository the alert worker needs.
type TotalsStore interface {
	CategoryMonthTotal(ctx context.Context, ownerID int64, category string, year int, month time.Month) (core.Money, error)
	MonthTotal(ctx context.Context, ownerID int64, year int, month time.Month) (core.Money, error)
}

// AlertWorker recomputes an owner's month-to-date totals from SQLite after
// each event and logs a structured alert when a ceiling crosses the warning
// or overrun tier. Ceilings are whole currency units from configuration.
type AlertWorker struct {
	store           TotalsStore
	monthlyBudget   core.Money
	categoryBudgets map[string]core.Money
	now             func() time.Time
}

func NewAlertWorker(store TotalsStore, monthlyBudget float64, categoryBudgets map[string]float64) *AlertWorker {
	budgets := make(map[string]core.Money, len(categoryBudgets))
	for category, units := range categoryBudgets {
		budgets[category] = core.FromUnits(units)
	}
	return &AlertWorker{
		store:           store,
		monthlyBudget:   core.FromUnits(monthlyBudget),
		categoryBudgets: budgets,
		now:             time.Now,
	}
}

// HandleRecordEvent processes one mutation event. Income events never alert;
// they only shift savings, not spending.
func (w *AlertWorker) HandleRecordEvent(ctx context.Context, event *events.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		"kind", event.Kind,
		"action", event.Action,
		"record_id", event.ID,
		"user_id", event.UserID)

	if event.Kind != core.KindExpense {
		return nil
	}

	year, month := w.eventMonth(event)

	if err := w.checkMonthly(ctx, event.UserID, year, month); err != nil {
		return err
	}
	if event.Category != "" {
		if err := w.checkCategory(ctx, event.UserID, event.Category, year, month); err != nil {
			return err
		}
	}
	return nil
}

// eventMonth picks the month to evaluate: the record's occurrence month when
// known, otherwise the current one (deletes carry no date).
func (w *AlertWorker) eventMonth(event *events.RecordEvent) (int, time.Month) {
	if !event.OccurredOn.IsZero() {
		return event.OccurredOn.Year(), event.OccurredOn.Month()
	}
	now := w.now()
	return now.Year(), now.Month()
}

func (w *AlertWorker) checkMonthly(ctx context.Context, userID int64, year int, month time.Month) error {
	if w.monthlyBudget.Cents <= 0 {
		return nil
	}

	spent, err := w.store.MonthTotal(ctx, userID, year, month)
	if err != nil {
		return fmt.Errorf("month total (user=%d, %d-%02d): %w", userID, year, month, err)
	}

	w.alert(ctx, "monthly", "", userID, spent, w.monthlyBudget, year, month)
	return nil
}

func (w *AlertWorker) checkCategory(ctx context.Context, userID int64, category string, year int, month time.Month) error {
	budget, ok := w.categoryBudgets[category]
	if !ok {
		return nil
	}

	spent, err := w.store.CategoryMonthTotal(ctx, userID, category, year, month)
	if err != nil {
		return fmt.Errorf("category total (user=%d, category=%s, %d-%02d): %w", userID, category, year, month, err)
	}

	w.alert(ctx, "category", category, userID, spent, budget, year, month)
	return nil
}

func (w *AlertWorker) alert(ctx context.Context, scope, category string, userID int64, spent, budget core.Money, year int, month time.Month) {
	percent, ok := report.BudgetUsage(spent, budget)
	if !ok {
		return
	}

	args := []any{
		"scope", scope,
		"user_id", userID,
		"year", year,
		"month", int(month),
		"spent_cents", spent.Cents,
		"budget_cents", budget.Cents,
		"percent", fmt.Sprintf("%.1f", percent),
	}
	if category != "" {
		args = append(args, "category", category)
	}

	switch report.ClassifyBudget(percent) {
	case report.BudgetOver:
		slog.ErrorContext(ctx, "Budget exceeded", args...)
	case report.BudgetWarning:
		slog.WarnContext(ctx, "Budget almost exhausted", args...)
	default:
		slog.DebugContext(ctx, "Budget within limits", args...)
	}
}
