package http

import (
	"net/http"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/auth"
	applog "github.com/marlonlamer/personal-finance-expense-analyzer/internal/log"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/report"
)

type categoryRow struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type monthRow struct {
	Label    string  `json:"label"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Expenses float64 `json:"expenses"`
	Incomes  float64 `json:"incomes"`
}

type dashboardResponse struct {
	Range           string        `json:"range"`
	TotalExpenses   float64       `json:"totalExpenses"`
	TotalIncomes    float64       `json:"totalIncomes"`
	Savings         float64       `json:"savings"`
	SavingsRate     *float64      `json:"savingsRate,omitempty"`
	SavingsStatus   string        `json:"savingsStatus,omitempty"`
	CategorySummary []categoryRow `json:"categorySummary"`
	MonthlySeries   []monthRow    `json:"monthlySeries"`
}

// handleDashboard aggregates the caller's records into the summary the
// dashboard renders. The optional range parameter narrows totals and the
// category breakdown; the monthly series always spans all records.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	filter := report.FilterAll
	switch v := report.DateFilter(r.URL.Query().Get("range")); v {
	case "":
	case report.FilterAll, report.FilterToday, report.FilterLast7Days, report.FilterCurrentMonth:
		filter = v
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid range")
		return
	}

	expenses, err := s.records.ListExpenses(r.Context(), userID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List expenses failed",
			applog.FieldError, err, applog.FieldUserID, userID)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch dashboard")
		return
	}
	incomes, err := s.records.ListIncomes(r.Context(), userID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List incomes failed",
			applog.FieldError, err, applog.FieldUserID, userID)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch dashboard")
		return
	}

	now := time.Now()
	filteredExpenses := report.FilterExpenses(expenses, filter, now)
	filteredIncomes := report.FilterIncomes(incomes, filter, now)

	totalExpenses := report.TotalExpenses(filteredExpenses)
	totalIncomes := report.TotalIncomes(filteredIncomes)

	resp := dashboardResponse{
		Range:         string(filter),
		TotalExpenses: totalExpenses.Units(),
		TotalIncomes:  totalIncomes.Units(),
		Savings:       report.Savings(totalIncomes, totalExpenses).Units(),
	}

	if rate, ok := report.SavingsRate(totalIncomes, totalExpenses); ok {
		resp.SavingsRate = &rate
		resp.SavingsStatus = string(report.ClassifySavings(rate))
	}

	summary := report.CategorySummary(filteredExpenses)
	resp.CategorySummary = make([]categoryRow, len(summary))
	for i, row := range summary {
		resp.CategorySummary[i] = categoryRow{Category: row.Category, Amount: row.Amount.Units()}
	}

	series := report.MonthlySeries(expenses, incomes)
	resp.MonthlySeries = make([]monthRow, len(series))
	for i, p := range series {
		resp.MonthlySeries[i] = monthRow{
			Label:    p.Label(),
			Year:     p.Year,
			Month:    int(p.Month),
			Expenses: p.Expenses.Units(),
			Incomes:  p.Incomes.Units(),
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}
