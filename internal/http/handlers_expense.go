package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/auth"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
	applog "github.com/marlonlamer/personal-finance-expense-analyzer/internal/log"
)

type expenseRequest struct {
	Title    string      `json:"title"`
	Amount   amountValue `json:"amount"`
	Category string      `json:"category"`
	Date     string      `json:"date"`
}

type expenseResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	UserID    int64   `json:"userId"`
	CreatedAt string  `json:"createdAt"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount.Units(),
		Category:  e.Category,
		Date:      e.Date.UTC().Format(time.RFC3339),
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	expenses, err := s.records.ListExpenses(r.Context(), userID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List expenses failed",
			applog.FieldError, err, applog.FieldUserID, userID)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch expenses")
		return
	}

	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseResponse(e)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount.err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if req.Title == "" || !req.Amount.set || req.Category == "" {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	expense := core.Expense{
		Title:    req.Title,
		Amount:   core.Money{Cents: req.Amount.cents},
		Category: req.Category,
		Date:     date,
		UserID:   userID,
	}

	saved, err := s.records.CreateExpense(r.Context(), expense)
	if err != nil {
		if isValidationError(err) {
			respondWithError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Create expense failed",
			applog.FieldError, err, applog.FieldUserID, userID)
		respondWithError(w, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	respondWithJSON(w, http.StatusCreated, toExpenseResponse(saved))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := s.records.DeleteExpense(r.Context(), id, userID); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Delete expense failed",
			applog.FieldError, err, applog.FieldUserID, userID, applog.FieldRecordID, id)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted"})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyTitle) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrEmptySource) ||
		errors.Is(err, core.ErrInvalidAmount)
}
