package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// TokenClaims is the token payload: the user id plus standard expiry.
type TokenClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// MakeToken signs an HS256 token for the user with the given lifetime.
func MakeToken(userID int64, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken verifies signature and expiry and returns the embedded user
// id. Any failure maps to core.ErrInvalidToken.
func ValidateToken(tokenString, secret string) (int64, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method: " + token.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, core.ErrInvalidToken
	}
	if claims.UserID == 0 {
		return 0, core.ErrInvalidToken
	}
	return claims.UserID, nil
}

// BearerToken extracts the token from an Authorization header. A missing
// header maps to core.ErrUnauthorized so callers can distinguish it from a
// present-but-bad token.
func BearerToken(h http.Header) (string, error) {
	value := h.Get("Authorization")
	if value == "" {
		return "", core.ErrUnauthorized
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return "", core.ErrInvalidToken
	}
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return "", core.ErrInvalidToken
	}
	return parts[1], nil
}
