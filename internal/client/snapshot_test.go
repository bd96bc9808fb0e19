package client

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

func expense(id int64, title string) core.Expense {
	return core.Expense{ID: id, Title: title, Amount: core.Money{Cents: 100}, Category: "Food"}
}

func TestSnapshotOperationsDoNotMutateOriginal(t *testing.T) {
	base := Snapshot{}.ReconcileExpenses([]core.Expense{expense(1, "a"), expense(2, "b")})

	withNew := base.PrependExpense(expense(3, "c"))
	assert.Len(t, base.Expenses, 2, "original unchanged after prepend")
	assert.Len(t, withNew.Expenses, 3)
	assert.Equal(t, int64(3), withNew.Expenses[0].ID, "new record goes first")

	without, removed, found := base.RemoveExpense(1)
	require.True(t, found)
	assert.Equal(t, "a", removed.Title)
	assert.Len(t, base.Expenses, 2, "original unchanged after remove")
	assert.Len(t, without.Expenses, 1)
}

func TestSnapshotRemoveMissing(t *testing.T) {
	base := Snapshot{}.ReconcileExpenses([]core.Expense{expense(1, "a")})

	same, _, found := base.RemoveExpense(99)
	assert.False(t, found)
	assert.Len(t, same.Expenses, 1)
}

func TestSnapshotReconcileCopiesInput(t *testing.T) {
	list := []core.Expense{expense(1, "a")}
	snap := Snapshot{}.ReconcileExpenses(list)

	list[0].Title = "mutated"
	assert.Equal(t, "a", snap.Expenses[0].Title)
}

func TestSnapshotCategoryBudgets(t *testing.T) {
	base := Snapshot{}.WithCategoryBudget("Food", core.Money{Cents: 50000})
	next := base.WithCategoryBudget("Health", core.Money{Cents: 10000})

	assert.Len(t, base.CategoryBudgets, 1, "original map unchanged")
	assert.Len(t, next.CategoryBudgets, 2)

	cleared := next.WithCategoryBudget("Food", core.Money{})
	assert.Len(t, cleared.CategoryBudgets, 1)
	assert.NotContains(t, cleared.CategoryBudgets, "Food")
}

func TestStoreNotifiesObservers(t *testing.T) {
	store := NewStore(Snapshot{})

	var seen []int
	store.Subscribe(func(s Snapshot) { seen = append(seen, len(s.Expenses)) })

	store.Update(func(s Snapshot) Snapshot { return s.PrependExpense(expense(1, "a")) })
	store.Update(func(s Snapshot) Snapshot { return s.PrependExpense(expense(2, "b")) })

	assert.Equal(t, []int{1, 2}, seen)
	assert.Len(t, store.Current().Expenses, 2)
}

func TestStoreNotifiesInCommitOrder(t *testing.T) {
	store := NewStore(Snapshot{})

	var mu sync.Mutex
	var seen []int
	store.Subscribe(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, len(s.Expenses))
		mu.Unlock()
	})

	const updates = 50
	var wg sync.WaitGroup
	for i := 0; i < updates; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Update(func(s Snapshot) Snapshot { return s.PrependExpense(expense(id, "x")) })
		}(int64(i + 1))
	}
	wg.Wait()

	require.Len(t, seen, updates)
	for i := 1; i < len(seen); i++ {
		require.Greater(t, seen[i], seen[i-1], "observer saw snapshots out of commit order")
	}
	assert.Equal(t, updates, seen[len(seen)-1], "last notification carries the final snapshot")
}

func TestFileStoragePersistRoundTrip(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	store := NewStore(Snapshot{})
	Persist(store, storage, func(err error) { t.Errorf("persist error: %v", err) })

	store.Update(func(s Snapshot) Snapshot {
		return s.
			ReconcileExpenses([]core.Expense{expense(1, "a")}).
			WithToken("tok").
			WithMonthlyBudget(core.Money{Cents: 150000}).
			WithCategoryBudget("Food", core.Money{Cents: 50000})
	})

	loaded, err := LoadSnapshot(storage)
	require.NoError(t, err)
	require.Len(t, loaded.Expenses, 1)
	assert.Equal(t, "a", loaded.Expenses[0].Title)
	assert.Equal(t, "tok", loaded.Token)
	assert.Equal(t, int64(150000), loaded.MonthlyBudget.Cents)
	assert.Equal(t, int64(50000), loaded.CategoryBudgets["Food"].Cents)
}

func TestLoadSnapshotEmptyStorage(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	snap, err := LoadSnapshot(storage)
	require.NoError(t, err)
	assert.Empty(t, snap.Expenses)
	assert.Empty(t, snap.Token)
}
