package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
	applog "github.com/marlonlamer/personal-finance-expense-analyzer/internal/log"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates a user and returns its public identity.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	identity, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrConflict) {
			respondWithError(w, http.StatusBadRequest, "Email already in use")
			return
		}
		if errors.Is(err, core.ErrEmptyEmail) || errors.Is(err, core.ErrUnauthorized) {
			respondWithError(w, http.StatusBadRequest, "All fields are required")
			return
		}
		if errors.Is(err, core.ErrInvalidEmail) {
			respondWithError(w, http.StatusBadRequest, "Invalid email")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Register failed", applog.FieldError, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	respondWithJSON(w, http.StatusCreated, identity)
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin verifies credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Login failed", applog.FieldError, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	respondWithJSON(w, http.StatusOK, loginResponse{Token: token})
}
