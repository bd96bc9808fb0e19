package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// UserStore is the slice of the repository the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
}

// Service registers and authenticates users and issues tokens.
type Service struct {
	store    UserStore
	secret   string
	tokenTTL time.Duration
}

func NewService(store UserStore, secret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, secret: secret, tokenTTL: tokenTTL}
}

// Identity is the public shape of a user: never the hash.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Register hashes the password and stores the user. A duplicate email
// surfaces as core.ErrConflict.
func (s *Service) Register(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := (core.User{Email: email}).Validate(); err != nil {
		return Identity{}, err
	}
	if password == "" {
		return Identity{}, fmt.Errorf("empty password: %w", core.ErrUnauthorized)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, hash)
	if err != nil {
		return Identity{}, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID)
	return Identity{ID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password both map to core.ErrUnauthorized so callers cannot probe
// which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", core.ErrUnauthorized
	}
	if !CheckPassword(password, user.PasswordHash) {
		return "", core.ErrUnauthorized
	}

	token, err := MakeToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, nil
}

// Verify resolves a raw token to a user id.
func (s *Service) Verify(tokenString string) (int64, error) {
	return ValidateToken(tokenString, s.secret)
}
