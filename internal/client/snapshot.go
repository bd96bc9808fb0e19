// Package client mirrors the single-page consumer of the API: a snapshot
// state container with optimistic edits, a durable local cache, and a
// debounced budget editor. Aggregation over a snapshot lives in
// internal/report.
package client

import (
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// Snapshot is an immutable view of the client state. Every mutation returns
// a new snapshot; the slices and the budget map are never shared with the
// originals.
type Snapshot struct {
	Expenses        []core.Expense
	Incomes         []core.Income
	Token           string
	MonthlyBudget   core.Money
	CategoryBudgets map[string]core.Money
}

// ReconcileExpenses replaces the expense list with server truth.
func (s Snapshot) ReconcileExpenses(list []core.Expense) Snapshot {
	s.Expenses = append([]core.Expense(nil), list...)
	return s
}

// ReconcileIncomes replaces the income list with server truth.
func (s Snapshot) ReconcileIncomes(list []core.Income) Snapshot {
	s.Incomes = append([]core.Income(nil), list...)
	return s
}

// WithToken stores the session token.
func (s Snapshot) WithToken(token string) Snapshot {
	s.Token = token
	return s
}

// PrependExpense puts a record at the head of the expense list.
func (s Snapshot) PrependExpense(e core.Expense) Snapshot {
	out := make([]core.Expense, 0, len(s.Expenses)+1)
	out = append(out, e)
	out = append(out, s.Expenses...)
	s.Expenses = out
	return s
}

// RemoveExpense drops the record with the given id. The removed record is
// returned so a failed server delete can restore it.
func (s Snapshot) RemoveExpense(id int64) (Snapshot, core.Expense, bool) {
	for i, e := range s.Expenses {
		if e.ID == id {
			out := make([]core.Expense, 0, len(s.Expenses)-1)
			out = append(out, s.Expenses[:i]...)
			out = append(out, s.Expenses[i+1:]...)
			s.Expenses = out
			return s, e, true
		}
	}
	return s, core.Expense{}, false
}

// PrependIncome puts a record at the head of the income list.
func (s Snapshot) PrependIncome(in core.Income) Snapshot {
	out := make([]core.Income, 0, len(s.Incomes)+1)
	out = append(out, in)
	out = append(out, s.Incomes...)
	s.Incomes = out
	return s
}

// RemoveIncome drops the record with the given id, returning it for rollback.
func (s Snapshot) RemoveIncome(id int64) (Snapshot, core.Income, bool) {
	for i, in := range s.Incomes {
		if in.ID == id {
			out := make([]core.Income, 0, len(s.Incomes)-1)
			out = append(out, s.Incomes[:i]...)
			out = append(out, s.Incomes[i+1:]...)
			s.Incomes = out
			return s, in, true
		}
	}
	return s, core.Income{}, false
}

// WithMonthlyBudget sets the overall monthly ceiling.
func (s Snapshot) WithMonthlyBudget(m core.Money) Snapshot {
	s.MonthlyBudget = m
	return s
}

// WithCategoryBudget sets one category ceiling. A zero amount removes it.
func (s Snapshot) WithCategoryBudget(category string, m core.Money) Snapshot {
	budgets := make(map[string]core.Money, len(s.CategoryBudgets)+1)
	for k, v := range s.CategoryBudgets {
		budgets[k] = v
	}
	if m.Cents == 0 {
		delete(budgets, category)
	} else {
		budgets[category] = m
	}
	s.CategoryBudgets = budgets
	return s
}
