package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

func newTestAPI(handler http.Handler) (*API, *Store, func()) {
	ts := httptest.NewServer(handler)
	store := NewStore(Snapshot{}.WithToken("tok"))
	return NewAPI(ts.URL, ts.Client(), store), store, ts.Close
}

func TestRefreshExpensesReconciles(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]expenseDTO{
			{ID: 10, Title: "Groceries", Amount: 42.5, Category: "Food", Date: "2024-06-01T00:00:00Z"},
		})
	}))
	defer done()

	list, err := api.RefreshExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(4250), list[0].Amount.Cents)
	assert.Len(t, store.Current().Expenses, 1)
}

func TestRefreshDegradesToCacheOnFailure(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	done() // server gone: transport failure

	store.Update(func(s Snapshot) Snapshot {
		return s.ReconcileExpenses([]core.Expense{expense(1, "cached")})
	})

	list, err := api.RefreshExpenses(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
	require.Len(t, list, 1, "cached snapshot survives")
	assert.Equal(t, "cached", list[0].Title)
}

func TestCreateExpensePrependsServerRecord(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var form expenseForm
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(expenseDTO{
			ID: 42, Title: form.Title, Amount: form.Amount, Category: form.Category,
			Date: "2024-06-01T00:00:00Z", UserID: 1,
		})
	}))
	defer done()

	store.Update(func(s Snapshot) Snapshot {
		return s.ReconcileExpenses([]core.Expense{expense(1, "old")})
	})

	saved, err := api.CreateExpense(context.Background(), "Groceries", core.Money{Cents: 4250}, "Food", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), saved.ID, "server id wins")

	snap := store.Current()
	require.Len(t, snap.Expenses, 2)
	assert.Equal(t, int64(42), snap.Expenses[0].ID)
}

func TestCreateExpenseFallsBackToLocalRecordWhenUnreachable(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	done()

	before := time.Now().UnixMilli()
	saved, err := api.CreateExpense(context.Background(), "Offline", core.Money{Cents: 500}, "Other", time.Time{})
	require.NoError(t, err, "offline create still succeeds locally")

	assert.GreaterOrEqual(t, saved.ID, before, "fabricated id is unix millis")
	require.Len(t, store.Current().Expenses, 1)
	assert.Equal(t, "Offline", store.Current().Expenses[0].Title)
}

func TestCreateExpenseServerRejectionAddsNothing(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "All fields are required"})
	}))
	defer done()

	_, err := api.CreateExpense(context.Background(), "", core.Money{Cents: 500}, "Other", time.Time{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "All fields are required", apiErr.Message)
	assert.Empty(t, store.Current().Expenses, "rejected record is not kept")
}

func TestDeleteExpenseOptimisticWithRollback(t *testing.T) {
	failing := true
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Failed to delete expense"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Expense deleted"})
	}))
	defer done()

	store.Update(func(s Snapshot) Snapshot {
		return s.ReconcileExpenses([]core.Expense{expense(1, "keep"), expense(2, "drop")})
	})

	err := api.DeleteExpense(context.Background(), 2)
	require.Error(t, err)
	require.Len(t, store.Current().Expenses, 2, "failed delete restores the record")

	failing = false
	require.NoError(t, api.DeleteExpense(context.Background(), 2))
	require.Len(t, store.Current().Expenses, 1)
	assert.Equal(t, "keep", store.Current().Expenses[0].Title)
}

func TestLoginStoresToken(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	}))
	defer done()

	require.NoError(t, api.Login(context.Background(), "ana@example.test", "pw"))
	assert.Equal(t, "fresh-token", store.Current().Token)

	api.Logout()
	assert.Empty(t, store.Current().Token)
}

func TestIncomeCreateAndDelete(t *testing.T) {
	api, store, done := newTestAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(incomeDTO{ID: 7, Title: "Salary", Amount: 3200, Source: "Employer"})
		case http.MethodDelete:
			json.NewEncoder(w).Encode(map[string]string{"message": "Income deleted"})
		}
	}))
	defer done()

	saved, err := api.CreateIncome(context.Background(), "Salary", core.Money{Cents: 320000}, "Employer", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)
	require.Len(t, store.Current().Incomes, 1)

	require.NoError(t, api.DeleteIncome(context.Background(), 7))
	assert.Empty(t, store.Current().Incomes)
}

func TestBudgetEditorDebounces(t *testing.T) {
	store := NewStore(Snapshot{})
	editor := NewBudgetEditor(store, 20*time.Millisecond)
	defer editor.Close()

	editor.SetMonthlyBudget(core.Money{Cents: 100000})
	editor.SetMonthlyBudget(core.Money{Cents: 200000})
	editor.SetMonthlyBudget(core.Money{Cents: 150000})

	assert.Zero(t, store.Current().MonthlyBudget.Cents, "nothing committed before the delay")

	assert.Eventually(t, func() bool {
		return store.Current().MonthlyBudget.Cents == 150000
	}, time.Second, 5*time.Millisecond, "only the last edit is committed")
}

func TestBudgetEditorCloseCancelsPending(t *testing.T) {
	store := NewStore(Snapshot{})
	editor := NewBudgetEditor(store, 20*time.Millisecond)

	editor.SetCategoryBudget("Food", core.Money{Cents: 50000})
	editor.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, store.Current().CategoryBudgets, "closing drops the pending commit")
}

func TestBudgetEditorFlush(t *testing.T) {
	store := NewStore(Snapshot{})
	editor := NewBudgetEditor(store, time.Hour)
	defer editor.Close()

	editor.SetMonthlyBudget(core.Money{Cents: 90000})
	editor.Flush()

	assert.Equal(t, int64(90000), store.Current().MonthlyBudget.Cents)
}
