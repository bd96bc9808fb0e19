package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/auth"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
	applog "github.com/marlonlamer/personal-finance-expense-analyzer/internal/log"
)

type incomeRequest struct {
	Title  string      `json:"title"`
	Amount amountValue `json:"amount"`
	Source string      `json:"source"`
	Date   string      `json:"date"`
}

type incomeResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Source    string  `json:"source"`
	Date      string  `json:"date"`
	UserID    int64   `json:"userId"`
	CreatedAt string  `json:"createdAt"`
}

func toIncomeResponse(i core.Income) incomeResponse {
	return incomeResponse{
		ID:        i.ID,
		Title:     i.Title,
		Amount:    i.Amount.Units(),
		Source:    i.Source,
		Date:      i.Date.UTC().Format(time.RFC3339),
		UserID:    i.UserID,
		CreatedAt: i.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	incomes, err := s.records.ListIncomes(r.Context(), userID)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "List incomes failed",
			applog.FieldError, err, applog.FieldUserID, userID)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch incomes")
		return
	}

	out := make([]incomeResponse, len(incomes))
	for i, in := range incomes {
		out[i] = toIncomeResponse(in)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req incomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Amount.err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	if req.Title == "" || !req.Amount.set || req.Source == "" {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	income := core.Income{
		Title:  req.Title,
		Amount: core.Money{Cents: req.Amount.cents},
		Source: req.Source,
		Date:   date,
		UserID: userID,
	}

	saved, err := s.records.CreateIncome(r.Context(), income)
	if err != nil {
		if isValidationError(err) {
			respondWithError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Create income failed",
			applog.FieldError, err, applog.FieldUserID, userID)
		respondWithError(w, http.StatusInternalServerError, "Failed to create income")
		return
	}

	respondWithJSON(w, http.StatusCreated, toIncomeResponse(saved))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	if err := s.records.DeleteIncome(r.Context(), id, userID); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Delete income failed",
			applog.FieldError, err, applog.FieldUserID, userID, applog.FieldRecordID, id)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete income")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Income deleted"})
}
