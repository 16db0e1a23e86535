package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spese/internal/core"
)

type recorded struct {
	method, path, body string
	header             http.Header
}

func newTestServer(t *testing.T, status int, response string) (*Client, *[]recorded) {
	t.Helper()
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recorded{r.Method, r.URL.Path, string(b), r.Header.Clone()})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second), &reqs
}

func TestListCategories(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `[{"id":1,"name":"Food"},{"id":2,"name":"Travel"}]`)

	got, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Travel" {
		t.Fatalf("unexpected categories %v", got)
	}
	if r := (*reqs)[0]; r.method != http.MethodGet || r.path != "/categories" {
		t.Errorf("unexpected request %s %s", r.method, r.path)
	}
}

func TestCreateExpenseBody(t *testing.T) {
	amount := 3.5
	tests := []struct {
		name string
		in   NewExpense
		want string
	}{
		{
			name: "amount as number and category reduced to id",
			in:   NewExpense{Title: "Coffee", Amount: &amount, ExpenseDate: "2024-01-01", Category: core.CategoryRef{ID: 2}},
			want: `{"title":"Coffee","amount":3.5,"expenseDate":"2024-01-01","category":{"id":2}}`,
		},
		{
			name: "unparseable amount omitted",
			in:   NewExpense{Title: "Coffee", ExpenseDate: "2024-01-01", Category: core.CategoryRef{ID: 2}},
			want: `{"title":"Coffee","expenseDate":"2024-01-01","category":{"id":2}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reqs := newTestServer(t, http.StatusCreated, `{"id":9,"title":"Coffee","amount":3.5,"expenseDate":"2024-01-01","category":{"id":2,"name":"Food"}}`)
			if _, err := c.CreateExpense(context.Background(), tt.in); err != nil {
				t.Fatalf("CreateExpense: %v", err)
			}
			r := (*reqs)[0]
			if r.method != http.MethodPost || r.path != "/expenses" {
				t.Errorf("unexpected request %s %s", r.method, r.path)
			}
			if r.body != tt.want {
				t.Errorf("body = %s, want %s", r.body, tt.want)
			}
			if r.header.Get("Content-Type") != "application/json" {
				t.Error("missing content type")
			}
		})
	}
}

func TestUpdateExpenseSendsFullObject(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `{"id":4,"title":"Tea","amount":2,"expenseDate":"2024-02-02","category":{"id":1,"name":"Food"}}`)

	e := core.Expense{ID: 4, Title: "Tea", Amount: 2, ExpenseDate: core.NewDate(2024, 2, 2), Category: core.Category{ID: 1, Name: "Food"}}
	got, err := c.UpdateExpense(context.Background(), e)
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if got.Title != "Tea" {
		t.Errorf("unexpected response %+v", got)
	}

	r := (*reqs)[0]
	if r.method != http.MethodPut || r.path != "/expenses/4" {
		t.Errorf("unexpected request %s %s", r.method, r.path)
	}
	var sent core.Expense
	if err := json.Unmarshal([]byte(r.body), &sent); err != nil {
		t.Fatalf("body not an expense: %v", err)
	}
	if sent.Category.Name != "Food" || sent.ExpenseDate.String() != "2024-02-02" {
		t.Errorf("unexpected body %s", r.body)
	}
}

func TestDeleteErrors(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusConflict, `{"error":"category is referenced by expenses"}`)

	err := c.DeleteCategory(context.Background(), 3)
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected 409 StatusError, got %v", err)
	}
	if !strings.Contains(err.Error(), "referenced") {
		t.Errorf("error message lost: %v", err)
	}
	if r := (*reqs)[0]; r.method != http.MethodDelete || r.path != "/categories/3" {
		t.Errorf("unexpected request %s %s", r.method, r.path)
	}
}

func TestDeleteExpenseNoContent(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusNoContent, "")
	if err := c.DeleteExpense(context.Background(), 8); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if (*reqs)[0].path != "/expenses/8" {
		t.Errorf("unexpected path %s", (*reqs)[0].path)
	}
}

func TestForwardedFor(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `[]`)
	ctx := WithForwardedFor(context.Background(), "198.51.100.4")
	if _, err := c.ListExpenses(ctx); err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if got := (*reqs)[0].header.Get("X-Forwarded-For"); got != "198.51.100.4" {
		t.Errorf("X-Forwarded-For = %q", got)
	}
}

func TestTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	if _, err := c.ListCategories(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}
