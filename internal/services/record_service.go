package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/events"
)

// RecordStore is the slice of the repository the record service needs.
type RecordStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id, ownerID int64) error
	CreateIncome(ctx context.Context, i core.Income) (core.Income, error)
	ListIncomes(ctx context.Context, ownerID int64) ([]core.Income, error)
	DeleteIncome(ctx context.Context, id, ownerID int64) error
}

// EventPublisher publishes record mutation events for downstream consumers.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, event *events.RecordEvent) error
}

// RecordService orchestrates record operations across SQLite and AMQP.
// Publishing is best effort: a broker failure never fails the request.
type RecordService struct {
	store     RecordStore
	publisher EventPublisher
}

func NewRecordService(store RecordStore, publisher EventPublisher) *RecordService {
	return &RecordService{store: store, publisher: publisher}
}

// CreateExpense validates and saves an expense, then publishes a created event.
func (s *RecordService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(core.KindExpense, events.ActionCreated,
		saved.ID, saved.UserID, saved.Category, saved.Amount.Cents, saved.Date))

	return saved, nil
}

// ListExpenses returns the owner's expenses, newest first.
func (s *RecordService) ListExpenses(ctx context.Context, ownerID int64) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, ownerID)
}

// DeleteExpense removes the owner's expense and publishes a deleted event.
// Deleting an id the owner does not hold is a no-op.
func (s *RecordService) DeleteExpense(ctx context.Context, id, ownerID int64) error {
	if err := s.store.DeleteExpense(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(core.KindExpense, events.ActionDeleted,
		id, ownerID, "", 0, time.Time{}))

	return nil
}

// CreateIncome validates and saves an income, then publishes a created event.
func (s *RecordService) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	if err := i.Validate(); err != nil {
		return core.Income{}, err
	}

	saved, err := s.store.CreateIncome(ctx, i)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(core.KindIncome, events.ActionCreated,
		saved.ID, saved.UserID, saved.Source, saved.Amount.Cents, saved.Date))

	return saved, nil
}

// ListIncomes returns the owner's incomes, newest first.
func (s *RecordService) ListIncomes(ctx context.Context, ownerID int64) ([]core.Income, error) {
	return s.store.ListIncomes(ctx, ownerID)
}

// DeleteIncome removes the owner's income and publishes a deleted event.
func (s *RecordService) DeleteIncome(ctx context.Context, id, ownerID int64) error {
	if err := s.store.DeleteIncome(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}

	s.publish(ctx, events.NewRecordEvent(core.KindIncome, events.ActionDeleted,
		id, ownerID, "", 0, time.Time{}))

	return nil
}

func (s *RecordService) publish(ctx context.Context, event *events.RecordEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"kind", event.Kind,
			"action", event.Action,
			"record_id", event.ID,
			"error", err)
	}
}
