package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"spese/internal/apiclient"
	"spese/internal/core"
	applog "spese/internal/log"
)

// ExpenseAPI is the part of the REST client the expense page needs.
type ExpenseAPI interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	CreateExpense(ctx context.Context, e apiclient.NewExpense) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// ExpenseForm holds the raw values of the add-expense inputs.
type ExpenseForm struct {
	Title       string
	Amount      string
	ExpenseDate string
	CategoryID  string
}

// EditForm holds the raw values entered in the edit modal.
type EditForm struct {
	Title       string
	Amount      string
	ExpenseDate string
}

const (
	msgSelectCategory      = "Please select a category"
	msgDeleteExpenseFailed = "Failed to delete expense"
)

type ExpenseController struct {
	api      ExpenseAPI
	reporter *Reporter
	currency string
}

func NewExpenseController(api ExpenseAPI, reporter *Reporter, currency string) *ExpenseController {
	if reporter == nil {
		reporter = NewReporter(nil)
	}
	return &ExpenseController{api: api, reporter: reporter, currency: currency}
}

// LoadCategories fills the category select. Failures are logged and not shown.
func (c *ExpenseController) LoadCategories(ctx context.Context) (CategorySelectView, error) {
	categories, err := c.api.ListCategories(ctx)
	if err != nil {
		c.reporter.Report(ctx, LoadFailure, "load category options", err, "")
		return CategorySelectView{}, fmt.Errorf("load categories: %w", err)
	}
	return BuildCategorySelect(categories), nil
}

func (c *ExpenseController) LoadExpenses(ctx context.Context) (ExpenseListView, error) {
	expenses, err := c.api.ListExpenses(ctx)
	if err != nil {
		c.reporter.Report(ctx, LoadFailure, "load expenses", err, "")
		return ExpenseListView{}, fmt.Errorf("load expenses: %w", err)
	}
	return BuildExpenseList(expenses, c.currency), nil
}

// PageData is the initial state of the expenses page.
// A region whose load failed is left empty; its error is in the matching field.
type PageData struct {
	Select      CategorySelectView
	SelectErr   error
	Expenses    ExpenseListView
	ExpensesErr error
}

// LoadPage loads the category options and the expense list concurrently.
func (c *ExpenseController) LoadPage(ctx context.Context) PageData {
	var data PageData
	// Each region records its own error so one failing load never hides the other;
	// the closures always return nil and Wait cannot fail.
	var g errgroup.Group
	g.Go(func() error {
		data.Select, data.SelectErr = c.LoadCategories(ctx)
		return nil
	})
	g.Go(func() error {
		data.Expenses, data.ExpensesErr = c.LoadExpenses(ctx)
		return nil
	})
	_ = g.Wait()
	return data
}

// AddExpense requires a category; the other fields go to the API unchecked.
// An amount that is not a number is left out of the request for the API to reject.
func (c *ExpenseController) AddExpense(ctx context.Context, form ExpenseForm) Outcome {
	if strings.TrimSpace(form.CategoryID) == "" {
		return Outcome{Notice: c.reporter.Report(ctx, InputFailure, "add expense", nil, msgSelectCategory)}
	}
	// Only the select fills categoryId, so anything that is not an id means no category was picked.
	categoryID, err := strconv.ParseInt(strings.TrimSpace(form.CategoryID), 10, 64)
	if err != nil {
		err = fmt.Errorf("%w: %q", core.ErrUnknownCategory, form.CategoryID)
		return Outcome{Err: err, Notice: c.reporter.Report(ctx, InputFailure, "add expense", err, msgSelectCategory)}
	}
	body := apiclient.NewExpense{
		Title:       form.Title,
		ExpenseDate: form.ExpenseDate,
		Category:    core.CategoryRef{ID: categoryID},
	}
	if amount, ok := core.ParseAmount(form.Amount); ok {
		body.Amount = &amount
	}

	created, err := c.api.CreateExpense(ctx, body)
	if err != nil {
		return Outcome{
			Requested: true,
			Err:       err,
			Notice:    c.reporter.Report(ctx, SaveFailure, "add expense", err, ""),
		}
	}
	applog.FromContext(ctx).DebugContext(ctx, "Expense created",
		applog.NewFields().WithExpense(created.ID, created.Title, created.Amount).ToSlice()...)
	return Outcome{Requested: true, Reload: true, ClearForm: true}
}

// LoadExpense fetches the current values for the edit modal. When the expense is gone
// the outcome asks for the list to be reloaded so the stale row disappears.
func (c *ExpenseController) LoadExpense(ctx context.Context, id int64) (core.Expense, Outcome) {
	e, err := c.api.GetExpense(ctx, id)
	if err != nil {
		c.reporter.Report(ctx, LoadFailure, "load expense", err, "")
		return core.Expense{}, Outcome{Err: err, Reload: apiclient.IsStatus(err, http.StatusNotFound)}
	}
	return e, Outcome{}
}

// EditExpense sends original with title, amount and date replaced.
// Any empty field means the edit was cancelled: nothing is sent and nothing is reported.
func (c *ExpenseController) EditExpense(ctx context.Context, original core.Expense, form EditForm) Outcome {
	if form.Title == "" || form.Amount == "" || form.ExpenseDate == "" {
		return Outcome{}
	}

	amount, ok := core.ParseAmount(form.Amount)
	if !ok {
		err := fmt.Errorf("%w: %q", core.ErrInvalidAmount, form.Amount)
		return Outcome{Err: err, Notice: c.reporter.Report(ctx, SaveFailure, "edit expense", err, "")}
	}
	date, err := core.ParseDate(form.ExpenseDate)
	if err != nil {
		return Outcome{Err: err, Notice: c.reporter.Report(ctx, SaveFailure, "edit expense", err, "")}
	}

	updated := original
	updated.Title = form.Title
	updated.Amount = amount
	updated.ExpenseDate = date

	if _, err := c.api.UpdateExpense(ctx, updated); err != nil {
		return Outcome{
			Requested: true,
			Err:       err,
			Notice:    c.reporter.Report(ctx, SaveFailure, "edit expense", err, ""),
		}
	}
	return Outcome{Requested: true, Reload: true}
}

// DeleteExpense does nothing unless confirmed.
func (c *ExpenseController) DeleteExpense(ctx context.Context, id int64, confirmed bool) Outcome {
	if !confirmed {
		return Outcome{}
	}
	if err := c.api.DeleteExpense(ctx, id); err != nil {
		return Outcome{
			Requested: true,
			Err:       err,
			Notice:    c.reporter.Report(ctx, DeleteFailure, "delete expense", err, msgDeleteExpenseFailed),
		}
	}
	return Outcome{Requested: true, Reload: true}
}

// ClearForm returns the add-expense inputs reset to empty.
func (c *ExpenseController) ClearForm() ExpenseForm {
	return ExpenseForm{}
}
