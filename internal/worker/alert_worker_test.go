package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/events"
)

type fakeTotals struct {
	monthCents    int64
	categoryCents map[string]int64
	err           error

	monthCalls    int
	categoryCalls []string
}

func (f *fakeTotals) MonthTotal(_ context.Context, _ int64, _ int, _ time.Month) (core.Money, error) {
	f.monthCalls++
	return core.Money{Cents: f.monthCents}, f.err
}

func (f *fakeTotals) CategoryMonthTotal(_ context.Context, _ int64, category string, _ int, _ time.Month) (core.Money, error) {
	f.categoryCalls = append(f.categoryCalls, category)
	return core.Money{Cents: f.categoryCents[category]}, f.err
}

func expenseEvent(category string, occurredOn time.Time) *events.RecordEvent {
	return &events.RecordEvent{
		Kind:       core.KindExpense,
		Action:     events.ActionCreated,
		ID:         1,
		UserID:     7,
		Category:   category,
		OccurredOn: occurredOn,
	}
}

func TestHandleRecordEventChecksConfiguredBudgets(t *testing.T) {
	totals := &fakeTotals{monthCents: 90000, categoryCents: map[string]int64{"Food": 45000}}
	w := NewAlertWorker(totals, 1000, map[string]float64{"Food": 500})

	err := w.HandleRecordEvent(context.Background(),
		expenseEvent("Food", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.Equal(t, 1, totals.monthCalls)
	assert.Equal(t, []string{"Food"}, totals.categoryCalls)
}

func TestHandleRecordEventSkipsUnbudgetedCategory(t *testing.T) {
	totals := &fakeTotals{}
	w := NewAlertWorker(totals, 0, map[string]float64{"Food": 500})

	err := w.HandleRecordEvent(context.Background(),
		expenseEvent("Entertainment", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.Zero(t, totals.monthCalls, "no monthly ceiling configured")
	assert.Empty(t, totals.categoryCalls, "no ceiling for that category")
}

func TestHandleRecordEventIgnoresIncomes(t *testing.T) {
	totals := &fakeTotals{}
	w := NewAlertWorker(totals, 1000, nil)

	err := w.HandleRecordEvent(context.Background(), &events.RecordEvent{
		Kind:   core.KindIncome,
		Action: events.ActionCreated,
		UserID: 7,
	})
	require.NoError(t, err)
	assert.Zero(t, totals.monthCalls)
}

func TestHandleRecordEventPropagatesStoreErrors(t *testing.T) {
	totals := &fakeTotals{err: errors.New("locked")}
	w := NewAlertWorker(totals, 1000, nil)

	err := w.HandleRecordEvent(context.Background(),
		expenseEvent("Food", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	require.Error(t, err, "store errors requeue the event")
}

func TestDeleteEventFallsBackToCurrentMonth(t *testing.T) {
	totals := &fakeTotals{}
	w := NewAlertWorker(totals, 1000, nil)
	w.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }

	ev := &events.RecordEvent{Kind: core.KindExpense, Action: events.ActionDeleted, UserID: 7}
	year, month := w.eventMonth(ev)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.June, month)

	require.NoError(t, w.HandleRecordEvent(context.Background(), ev))
	assert.Equal(t, 1, totals.monthCalls)
}
