package services

import (
	"context"
	"fmt"

	"spese/internal/amqp"
	"spese/internal/cache"
	"spese/internal/core"
	"spese/internal/store"
)

const categoriesCacheKey = "categories"

type CategoryService struct {
	storage   store.CategoryStore
	publisher Publisher
	cache     cache.Cache[[]core.Category]
}

func NewCategoryService(storage store.CategoryStore, publisher Publisher) *CategoryService {
	return &CategoryService{storage: storage, publisher: publisher}
}

// WithCache serves the category list from c until a category is changed through this service.
func (s *CategoryService) WithCache(c cache.Cache[[]core.Category]) *CategoryService {
	s.cache = c
	return s
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]core.Category, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(categoriesCacheKey); ok {
			return append([]core.Category(nil), cached...), nil
		}
	}
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(categoriesCacheKey, append([]core.Category(nil), categories...))
	}
	return categories, nil
}

func (s *CategoryService) invalidate() {
	if s.cache != nil {
		s.cache.Delete(categoriesCacheKey)
	}
}

// CreateCategory stores the name as given; empty names are accepted.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	c, err := s.storage.CreateCategory(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	s.invalidate()
	publish(ctx, s.publisher, amqp.EntityCategory, amqp.ActionCreate, c.ID)
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name string) (core.Category, error) {
	c, err := s.storage.UpdateCategory(ctx, id, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category %d: %w", id, err)
	}
	s.invalidate()
	publish(ctx, s.publisher, amqp.EntityCategory, amqp.ActionUpdate, id)
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.invalidate()
	publish(ctx, s.publisher, amqp.EntityCategory, amqp.ActionDelete, id)
	return nil
}
