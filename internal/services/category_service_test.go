package services

import (
	"context"
	"testing"
	"time"

	"spese/internal/cache"
	"spese/internal/core"
	"spese/internal/store"
	"spese/internal/store/memory"
)

type countingCategories struct {
	store.CategoryStore
	lists int
}

func (c *countingCategories) ListCategories(ctx context.Context) ([]core.Category, error) {
	c.lists++
	return c.CategoryStore.ListCategories(ctx)
}

func TestCategoryServiceCache(t *testing.T) {
	ctx := context.Background()
	backing := &countingCategories{CategoryStore: memory.New([]string{"Food"})}
	svc := NewCategoryService(backing, nil).WithCache(cache.NewLRUCache[[]core.Category](1, time.Minute))

	for i := 0; i < 3; i++ {
		got, err := svc.ListCategories(ctx)
		if err != nil || len(got) != 1 {
			t.Fatalf("ListCategories() = %v, %v", got, err)
		}
	}
	if backing.lists != 1 {
		t.Errorf("store listed %d times, want 1", backing.lists)
	}

	if _, err := svc.CreateCategory(ctx, "Travel"); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	got, _ := svc.ListCategories(ctx)
	if len(got) != 2 || got[1].Name != "Travel" {
		t.Errorf("after create = %+v, want Food and Travel", got)
	}
	if backing.lists != 2 {
		t.Errorf("store listed %d times, want 2", backing.lists)
	}

	got[0].Name = "mutated"
	again, _ := svc.ListCategories(ctx)
	if again[0].Name != "Food" {
		t.Error("cached slice shared with caller")
	}

	if err := svc.DeleteCategory(ctx, 2); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	got, _ = svc.ListCategories(ctx)
	if len(got) != 1 {
		t.Errorf("after delete = %+v, want only Food", got)
	}
}

func TestCategoryServiceWithoutCache(t *testing.T) {
	backing := &countingCategories{CategoryStore: memory.New(nil)}
	svc := NewCategoryService(backing, nil)
	for i := 0; i < 2; i++ {
		if _, err := svc.ListCategories(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if backing.lists != 2 {
		t.Errorf("store listed %d times, want 2", backing.lists)
	}
}
