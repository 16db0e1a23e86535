package services

import (
	"context"
	"fmt"
	"log/slog"

	"spese/internal/amqp"
	"spese/internal/core"
	"spese/internal/store"
)

// Publisher sends change messages. *amqp.Client implements it.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// ExpenseService orchestrates expense operations across storage and AMQP
type ExpenseService struct {
	storage   store.ExpenseStore
	publisher Publisher
}

func NewExpenseService(storage store.ExpenseStore, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

func (s *ExpenseService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.storage.GetExpense(ctx, id)
}

// CreateExpense saves an expense and publishes a change message
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	publish(ctx, s.publisher, amqp.EntityExpense, amqp.ActionCreate, created.ID)
	return created, nil
}

// UpdateExpense replaces the stored expense with e.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	updated, err := s.storage.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	publish(ctx, s.publisher, amqp.EntityExpense, amqp.ActionUpdate, updated.ID)
	return updated, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.storage.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	publish(ctx, s.publisher, amqp.EntityExpense, amqp.ActionDelete, id)
	return nil
}

// publish never fails the caller: the change is already stored.
func publish(ctx context.Context, p Publisher, entity, action string, id int64) {
	if p == nil {
		slog.DebugContext(ctx, "AMQP publisher not available, skipping change message", "entity", entity, "action", action, "id", id)
		return
	}
	if err := p.PublishChange(ctx, amqp.NewChangeMessage(entity, action, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}
