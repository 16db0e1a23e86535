package store

import (
	"context"
	"time"

	"spese/internal/core"
)

// Ports implemented by the storage backends.
type (
	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, name string) (core.Category, error)
		// UpdateCategory renames a category. Returns core.ErrNotFound if it does not exist.
		UpdateCategory(ctx context.Context, id int64, name string) (core.Category, error)
		// DeleteCategory returns core.ErrNotFound or core.ErrCategoryInUse.
		DeleteCategory(ctx context.Context, id int64) error
	}

	// ExpenseStore returns expenses with the category name populated.
	ExpenseStore interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		// CreateExpense returns core.ErrUnknownCategory when e.Category.ID does not exist.
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		DeleteExpense(ctx context.Context, id int64) error
	}

	// AuditRecorder persists change events consumed by the worker.
	AuditRecorder interface {
		RecordAudit(ctx context.Context, entry AuditEntry) error
	}

	// Store is what the REST backend needs from a storage backend.
	Store interface {
		CategoryStore
		ExpenseStore
		Close() error
	}
)

// AuditEntry is one recorded change event.
type AuditEntry struct {
	EventID    string
	Entity     string
	Action     string
	EntityID   int64
	OccurredAt time.Time
}
