package report

import "github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"

// BudgetStatus is the three-tier coloring applied to budget usage.
type BudgetStatus string

const (
	BudgetOK      BudgetStatus = "ok"      // < 80%
	BudgetWarning BudgetStatus = "warning" // 80-99%
	BudgetOver    BudgetStatus = "over"    // >= 100%
)

// SavingsStatus classifies the savings rate.
type SavingsStatus string

const (
	SavingsNegative SavingsStatus = "negative" // < 0%
	SavingsLow      SavingsStatus = "low"      // 0-14%
	SavingsHealthy  SavingsStatus = "healthy"  // >= 15%
)

// BudgetUsage returns spent/budget as a percentage. ok is false when no
// budget is set (budget <= 0), in which case percent is meaningless.
func BudgetUsage(spent, budget core.Money) (percent float64, ok bool) {
	if budget.Cents <= 0 {
		return 0, false
	}
	return float64(spent.Cents) / float64(budget.Cents) * 100, true
}

// ClassifyBudget maps a usage percentage to its display tier.
func ClassifyBudget(percent float64) BudgetStatus {
	switch {
	case percent >= 100:
		return BudgetOver
	case percent >= 80:
		return BudgetWarning
	default:
		return BudgetOK
	}
}

// Savings is total income minus total expense; may be negative.
func Savings(totalIncome, totalExpense core.Money) core.Money {
	return core.Money{Cents: totalIncome.Cents - totalExpense.Cents}
}

// SavingsRate returns savings as a percentage of income. ok is false when
// total income is zero, where the rate is undefined.
func SavingsRate(totalIncome, totalExpense core.Money) (percent float64, ok bool) {
	if totalIncome.Cents == 0 {
		return 0, false
	}
	savings := Savings(totalIncome, totalExpense)
	return float64(savings.Cents) / float64(totalIncome.Cents) * 100, true
}

// ClassifySavings maps a savings rate to its display tier.
func ClassifySavings(percent float64) SavingsStatus {
	switch {
	case percent < 0:
		return SavingsNegative
	case percent >= 15:
		return SavingsHealthy
	default:
		return SavingsLow
	}
}
