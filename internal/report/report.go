// Package report computes derived views over in-memory record lists:
// totals, category breakdowns, monthly series, budget usage and savings.
// Every function is pure; callers recompute on demand.
package report

import (
	"sort"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Category string
	Amount   core.Money
}

// MonthPoint is one point of the month-over-month series. Months present in
// only one of the two inputs carry a zero for the other.
type MonthPoint struct {
	Year     int
	Month    time.Month
	Expenses core.Money
	Incomes  core.Money
}

// Label renders the bucket the way the dashboard displays it, e.g. "Jan 2024".
func (p MonthPoint) Label() string {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// TotalExpenses sums the amounts of the given expenses.
func TotalExpenses(expenses []core.Expense) core.Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return core.Money{Cents: cents}
}

// TotalIncomes sums the amounts of the given incomes.
func TotalIncomes(incomes []core.Income) core.Money {
	var cents int64
	for _, i := range incomes {
		cents += i.Amount.Cents
	}
	return core.Money{Cents: cents}
}

// CategorySummary groups expenses by category and sums per group, sorted by
// sum descending. An empty category falls into "Uncategorized". The rows
// always partition the input: their sum equals TotalExpenses.
func CategorySummary(expenses []core.Expense) []CategoryAmount {
	byCat := make(map[string]int64)
	for _, e := range expenses {
		cat := e.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		byCat[cat] += e.Amount.Cents
	}

	rows := make([]CategoryAmount, 0, len(byCat))
	for cat, cents := range byCat {
		rows = append(rows, CategoryAmount{Category: cat, Amount: core.Money{Cents: cents}})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount.Cents != rows[j].Amount.Cents {
			return rows[i].Amount.Cents > rows[j].Amount.Cents
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlySeries buckets both lists by (year, month) of their dates and emits
// one point per distinct bucket present in either list, ascending.
func MonthlySeries(expenses []core.Expense, incomes []core.Income) []MonthPoint {
	expSums := make(map[monthKey]int64)
	incSums := make(map[monthKey]int64)

	for _, e := range expenses {
		if e.Date.IsZero() {
			continue
		}
		k := monthKey{e.Date.Year(), e.Date.Month()}
		expSums[k] += e.Amount.Cents
	}
	for _, i := range incomes {
		if i.Date.IsZero() {
			continue
		}
		k := monthKey{i.Date.Year(), i.Date.Month()}
		incSums[k] += i.Amount.Cents
	}

	keys := make(map[monthKey]struct{}, len(expSums)+len(incSums))
	for k := range expSums {
		keys[k] = struct{}{}
	}
	for k := range incSums {
		keys[k] = struct{}{}
	}

	series := make([]MonthPoint, 0, len(keys))
	for k := range keys {
		series = append(series, MonthPoint{
			Year:     k.year,
			Month:    k.month,
			Expenses: core.Money{Cents: expSums[k]},
			Incomes:  core.Money{Cents: incSums[k]},
		})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})
	return series
}
