package client

import (
	"sync"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// DefaultCommitDelay is how long the budget editor waits after the last
// keystroke before committing.
const DefaultCommitDelay = 800 * time.Millisecond

// BudgetEditor batches rapid budget edits: each edit restarts the timer and
// only the final value is committed to the store. Closing the editor drops
// any pending commit.
type BudgetEditor struct {
	mu      sync.Mutex
	store   *Store
	delay   time.Duration
	pending *pendingEdit
	timer   *time.Timer
	closed  bool
}

type pendingEdit struct {
	category string // empty for the overall monthly budget
	amount   core.Money
}

func NewBudgetEditor(store *Store, delay time.Duration) *BudgetEditor {
	if delay <= 0 {
		delay = DefaultCommitDelay
	}
	return &BudgetEditor{store: store, delay: delay}
}

// SetMonthlyBudget schedules a commit of the overall ceiling.
func (e *BudgetEditor) SetMonthlyBudget(amount core.Money) {
	e.schedule(pendingEdit{amount: amount})
}

// SetCategoryBudget schedules a commit of a per-category ceiling.
func (e *BudgetEditor) SetCategoryBudget(category string, amount core.Money) {
	e.schedule(pendingEdit{category: category, amount: amount})
}

func (e *BudgetEditor) schedule(edit pendingEdit) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.pending = &edit
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, e.commit)
}

func (e *BudgetEditor) commit() {
	e.mu.Lock()
	edit := e.pending
	e.pending = nil
	closed := e.closed
	e.mu.Unlock()

	if edit == nil || closed {
		return
	}

	e.store.Update(func(s Snapshot) Snapshot {
		if edit.category == "" {
			return s.WithMonthlyBudget(edit.amount)
		}
		return s.WithCategoryBudget(edit.category, edit.amount)
	})
}

// Flush commits a pending edit immediately.
func (e *BudgetEditor) Flush() {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.mu.Unlock()
	e.commit()
}

// Close cancels any pending commit. Edits after Close are ignored.
func (e *BudgetEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.pending = nil
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
