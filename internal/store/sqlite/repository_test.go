package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spese/internal/core"
	"spese/internal/store"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "data", "spese.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spese.db")
	v1, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	v2, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if v1 != 2 || v2 != 2 {
		t.Fatalf("unexpected versions: %d, %d", v1, v2)
	}
}

func TestRepositoryCategories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	cats, err := repo.ListCategories(ctx)
	if err != nil || len(cats) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", cats, err)
	}

	food, err := repo.CreateCategory(ctx, "Food")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	travel, _ := repo.CreateCategory(ctx, "Travel")
	if travel.ID <= food.ID {
		t.Fatalf("ids not increasing: %d, %d", food.ID, travel.ID)
	}

	if _, err := repo.UpdateCategory(ctx, travel.ID, "Trips"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := repo.UpdateCategory(ctx, 999, "x"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	cats, _ = repo.ListCategories(ctx)
	if len(cats) != 2 || cats[1].Name != "Trips" {
		t.Fatalf("unexpected categories: %v", cats)
	}

	if err := repo.DeleteCategory(ctx, food.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteCategory(ctx, food.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryExpenses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	travel, _ := repo.CreateCategory(ctx, "Travel")

	_, err := repo.CreateExpense(ctx, core.Expense{Title: "x", ExpenseDate: core.NewDate(2024, 1, 1), Category: core.Category{ID: 42}})
	if !errors.Is(err, core.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}

	e, err := repo.CreateExpense(ctx, core.Expense{
		Title:       "Train",
		Amount:      19.9,
		ExpenseDate: core.NewDate(2024, 3, 5),
		Category:    core.Category{ID: travel.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Category.Name != "Travel" || e.Amount != 19.9 || e.ExpenseDate.String() != "2024-03-05" {
		t.Fatalf("unexpected expense: %+v", e)
	}

	if err := repo.DeleteCategory(ctx, travel.ID); !errors.Is(err, core.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}

	e.Title = "Bus"
	e.Amount = 2.5
	updated, err := repo.UpdateExpense(ctx, e)
	if err != nil || updated.Title != "Bus" || updated.Amount != 2.5 {
		t.Fatalf("unexpected update: %+v err=%v", updated, err)
	}

	list, err := repo.ListExpenses(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}

	if err := repo.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryAuditDeduplicates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	entry := store.AuditEntry{EventID: "evt-1", Entity: "expense", Action: "create", EntityID: 1, OccurredAt: time.Now()}
	for i := 0; i < 2; i++ {
		if err := repo.RecordAudit(ctx, entry); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	n, err := repo.CountAudit(ctx, "expense")
	if err != nil || n != 1 {
		t.Fatalf("expected 1 audit row, got %d err=%v", n, err)
	}
}
