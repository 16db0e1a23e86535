package controller

import (
	"context"
	"errors"
	"sync"

	"spese/internal/apiclient"
	"spese/internal/core"
)

var errBackend = errors.New("backend unavailable")

type call struct {
	op   string
	id   int64
	body any
}

// fakeAPI records every call and serves canned data.
type fakeAPI struct {
	mu         sync.Mutex
	calls      []call
	categories []core.Category
	expenses   []core.Expense
	err        map[string]error
}

func (f *fakeAPI) record(op string, id int64, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, id: id, body: body})
	return f.err[op]
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if op == "" || c.op == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListCategories(context.Context) ([]core.Category, error) {
	if err := f.record("ListCategories", 0, nil); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, name string) (core.Category, error) {
	if err := f.record("CreateCategory", 0, name); err != nil {
		return core.Category{}, err
	}
	c := core.Category{ID: int64(len(f.categories) + 1), Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeAPI) DeleteCategory(_ context.Context, id int64) error {
	return f.record("DeleteCategory", id, nil)
}

func (f *fakeAPI) ListExpenses(context.Context) ([]core.Expense, error) {
	if err := f.record("ListExpenses", 0, nil); err != nil {
		return nil, err
	}
	return f.expenses, nil
}

func (f *fakeAPI) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	if err := f.record("GetExpense", id, nil); err != nil {
		return core.Expense{}, err
	}
	for _, e := range f.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, &apiclient.StatusError{Method: "GET", Path: "/expenses", StatusCode: 404}
}

func (f *fakeAPI) CreateExpense(_ context.Context, e apiclient.NewExpense) (core.Expense, error) {
	if err := f.record("CreateExpense", 0, e); err != nil {
		return core.Expense{}, err
	}
	return core.Expense{ID: 1, Title: e.Title}, nil
}

func (f *fakeAPI) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := f.record("UpdateExpense", e.ID, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (f *fakeAPI) DeleteExpense(_ context.Context, id int64) error {
	return f.record("DeleteExpense", id, nil)
}
