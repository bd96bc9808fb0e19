package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindExpense RecordKind = "expense"
	KindIncome  RecordKind = "income"
)

type (
	// RecordKind distinguishes the two financial record types sharing one store.
	RecordKind string

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	// Expense is a money-out record owned by exactly one user.
	Expense struct {
		ID        int64
		Title     string
		Amount    Money
		Category  string
		Date      time.Time
		UserID    int64
		CreatedAt time.Time
	}

	// Income is a money-in record; Source plays the role Category plays
	// for expenses.
	Income struct {
		ID        int64
		Title     string
		Amount    Money
		Source    string
		Date      time.Time
		UserID    int64
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptySource   = errors.New("empty source")
	ErrEmptyEmail    = errors.New("empty email")
	ErrInvalidEmail  = errors.New("malformed email")

	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrNotFound     = errors.New("not found")
)

// DefaultCategories is the category set the client offers for new expenses.
// The server accepts any non-empty category.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Rent/Housing",
	"Utilities",
	"Health",
	"Entertainment",
	"Education",
	"Other",
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if len(i.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// CanAccess is the single authorization predicate applied before every
// owner-scoped read or mutation. Records carry exactly one owner.
func CanAccess(userID, recordOwnerID int64) bool {
	return userID != 0 && userID == recordOwnerID
}
