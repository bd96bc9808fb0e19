package services

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

type fakeStore struct {
	expenses  []core.Expense
	incomes   []core.Income
	nextID    int64
	failNext  bool
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if f.failNext {
		return core.Expense{}, errors.New("disk full")
	}
	e.ID = f.nextID
	f.nextID++
	e.CreatedAt = time.Now()
	f.expenses = append(f.expenses, e)
	return e, nil
}

func (f *fakeStore) ListExpenses(_ context.Context, ownerID int64) ([]core.Expense, error) {
	var out []core.Expense
	for _, e := range f.expenses {
		if e.UserID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteExpense(_ context.Context, id, ownerID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, e := range f.expenses {
		if e.ID == id && e.UserID == ownerID {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) CreateIncome(_ context.Context, in core.Income) (core.Income, error) {
	in.ID = f.nextID
	f.nextID++
	in.CreatedAt = time.Now()
	f.incomes = append(f.incomes, in)
	return in, nil
}

func (f *fakeStore) ListIncomes(_ context.Context, ownerID int64) ([]core.Income, error) {
	var out []core.Income
	for _, in := range f.incomes {
		if in.UserID == ownerID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteIncome(_ context.Context, id, ownerID int64) error {
	for i, in := range f.incomes {
		if in.ID == id && in.UserID == ownerID {
			f.incomes = append(f.incomes[:i], f.incomes[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePublisher struct {
	published []*events.RecordEvent
	err       error
}

func (f *fakePublisher) PublishRecordEvent(_ context.Context, event *events.RecordEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, event)
	return nil
}

func validExpense() core.Expense {
	return core.Expense{
		Title:    "Groceries",
		Amount:   core.Money{Cents: 4250},
		Category: "Food",
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UserID:   1,
	}
}

func TestCreateExpensePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(newFakeStore(), pub)

	saved, err := svc.CreateExpense(context.Background(), validExpense())
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	require.Len(t, pub.published, 1)
	ev := pub.published[0]
	assert.Equal(t, core.KindExpense, ev.Kind)
	assert.Equal(t, events.ActionCreated, ev.Action)
	assert.Equal(t, saved.ID, ev.ID)
	assert.Equal(t, int64(4250), ev.AmountCents)
	assert.Equal(t, "Food", ev.Category)
}

func TestCreateExpenseRejectsInvalid(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(newFakeStore(), pub)

	e := validExpense()
	e.Title = ""
	_, err := svc.CreateExpense(context.Background(), e)
	assert.ErrorIs(t, err, core.ErrEmptyTitle)
	assert.Empty(t, pub.published, "nothing published for rejected input")
}

func TestCreateExpenseSurvivesBrokerFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	store := newFakeStore()
	svc := NewRecordService(store, pub)

	saved, err := svc.CreateExpense(context.Background(), validExpense())
	require.NoError(t, err, "broker failure must not fail the request")
	assert.Len(t, store.expenses, 1)
	assert.NotZero(t, saved.ID)
}

func TestCreateExpenseWithoutPublisher(t *testing.T) {
	svc := NewRecordService(newFakeStore(), nil)

	_, err := svc.CreateExpense(context.Background(), validExpense())
	require.NoError(t, err)
}

func TestDeleteExpensePublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	store := newFakeStore()
	svc := NewRecordService(store, pub)

	saved, err := svc.CreateExpense(context.Background(), validExpense())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteExpense(context.Background(), saved.ID, saved.UserID))
	assert.Empty(t, store.expenses)

	require.Len(t, pub.published, 2)
	assert.Equal(t, events.ActionDeleted, pub.published[1].Action)
}

func TestDeleteExpenseStoreError(t *testing.T) {
	store := newFakeStore()
	store.deleteErr = errors.New("locked")
	pub := &fakePublisher{}
	svc := NewRecordService(store, pub)

	err := svc.DeleteExpense(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Empty(t, pub.published, "no event when the delete failed")
}

func TestIncomeRoundTrip(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(newFakeStore(), pub)
	ctx := context.Background()

	saved, err := svc.CreateIncome(ctx, core.Income{
		Title:  "Salary",
		Amount: core.Money{Cents: 320000},
		Source: "Employer",
		Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		UserID: 7,
	})
	require.NoError(t, err)

	list, err := svc.ListIncomes(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	require.NoError(t, svc.DeleteIncome(ctx, saved.ID, 7))
	list, err = svc.ListIncomes(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.Len(t, pub.published, 2)
	assert.Equal(t, core.KindIncome, pub.published[0].Kind)
}
