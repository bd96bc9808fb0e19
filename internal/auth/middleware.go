package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

type contextKey string

const userIDContextKey contextKey = "auth.user_id"

// UserID returns the authenticated caller's id, or 0 when the request did
// not pass through Middleware.
func UserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(userIDContextKey).(int64); ok {
		return id
	}
	return 0
}

// WithUserID stores a user id on the context. Exported for handler tests.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

// Middleware gates a handler behind a bearer token. The resolved user id
// lives on the request context only; nothing is persisted. reject is called
// with 401 and a message for both missing and invalid tokens.
func Middleware(s *Service, reject func(w http.ResponseWriter, code int, msg string)) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header)
			if err != nil {
				if errors.Is(err, core.ErrUnauthorized) {
					reject(w, http.StatusUnauthorized, "Unauthorized")
				} else {
					reject(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			userID, err := s.Verify(token)
			if err != nil {
				reject(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next(w, r.WithContext(WithUserID(r.Context(), userID)))
		}
	}
}
