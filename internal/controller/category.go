package controller

import (
	"context"
	"fmt"

	"spese/internal/core"
	applog "spese/internal/log"
)

// CategoryAPI is the part of the REST client the category page needs.
type CategoryAPI interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, name string) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// Outcome tells the page what to do after a user action.
type Outcome struct {
	// Requested is true when a mutating request was sent.
	Requested bool
	// Reload asks for the affected list to be fetched and rendered again.
	Reload bool
	// ClearForm asks for the expense form inputs to be emptied.
	ClearForm bool
	Notice    *Notice
	Err       error
}

const msgDeleteCategoryFailed = "Failed to delete category"

type CategoryController struct {
	api      CategoryAPI
	reporter *Reporter
}

func NewCategoryController(api CategoryAPI, reporter *Reporter) *CategoryController {
	if reporter == nil {
		reporter = NewReporter(nil)
	}
	return &CategoryController{api: api, reporter: reporter}
}

// LoadCategories fetches all categories. On error the caller keeps what it rendered before.
func (c *CategoryController) LoadCategories(ctx context.Context) (CategoryListView, error) {
	categories, err := c.api.ListCategories(ctx)
	if err != nil {
		c.reporter.Report(ctx, LoadFailure, "load categories", err, "")
		return CategoryListView{}, fmt.Errorf("load categories: %w", err)
	}
	return BuildCategoryList(categories), nil
}

// AddCategory sends name as typed. The list is reloaded whether or not the create succeeded.
func (c *CategoryController) AddCategory(ctx context.Context, name string) Outcome {
	out := Outcome{Requested: true, Reload: true}
	created, err := c.api.CreateCategory(ctx, name)
	if err != nil {
		out.Err = err
		out.Notice = c.reporter.Report(ctx, SaveFailure, "add category", err, "")
		return out
	}
	applog.FromContext(ctx).DebugContext(ctx, "Category created",
		applog.NewFields().WithCategory(created.ID, created.Name).ToSlice()...)
	return out
}

// DeleteCategory does nothing unless confirmed.
func (c *CategoryController) DeleteCategory(ctx context.Context, id int64, confirmed bool) Outcome {
	if !confirmed {
		return Outcome{}
	}
	if err := c.api.DeleteCategory(ctx, id); err != nil {
		return Outcome{
			Requested: true,
			Err:       err,
			Notice:    c.reporter.Report(ctx, DeleteFailure, "delete category", err, msgDeleteCategoryFailed),
		}
	}
	return Outcome{Requested: true, Reload: true}
}
