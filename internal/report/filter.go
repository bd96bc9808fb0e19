package report

import (
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// DateFilter selects a subset of records by occurrence date.
type DateFilter string

const (
	FilterAll          DateFilter = "all"
	FilterToday        DateFilter = "today"
	FilterLast7Days    DateFilter = "7days"
	FilterCurrentMonth DateFilter = "month"
)

// Matches reports whether a record dated d passes the filter relative to now.
// Records with a zero date pass only FilterAll.
func (f DateFilter) Matches(d, now time.Time) bool {
	if f == FilterAll {
		return true
	}
	if d.IsZero() {
		return false
	}

	dy, dm, dd := d.Date()
	ny, nm, nd := now.Date()

	switch f {
	case FilterToday:
		return dy == ny && dm == nm && dd == nd
	case FilterLast7Days:
		// Inclusive of today, so the window covers 7 calendar days.
		dayStart := time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location())
		windowStart := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
		return !dayStart.Before(windowStart) && !dayStart.After(now)
	case FilterCurrentMonth:
		return dy == ny && dm == nm
	default:
		return false
	}
}

// FilterExpenses returns the expenses passing the filter relative to now.
func FilterExpenses(expenses []core.Expense, f DateFilter, now time.Time) []core.Expense {
	if f == FilterAll {
		return expenses
	}
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e.Date, now) {
			out = append(out, e)
		}
	}
	return out
}

// FilterIncomes returns the incomes passing the filter relative to now.
func FilterIncomes(incomes []core.Income, f DateFilter, now time.Time) []core.Income {
	if f == FilterAll {
		return incomes
	}
	out := make([]core.Income, 0, len(incomes))
	for _, i := range incomes {
		if f.Matches(i.Date, now) {
			out = append(out, i)
		}
	}
	return out
}
