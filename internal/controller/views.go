package controller

import (
	"fmt"
	"strconv"

	"spese/internal/core"
)

// CategorySelectPlaceholder is the label of the empty first option.
const CategorySelectPlaceholder = "-- Select Category --"

// DisplayDateLayout renders dates the way the expense list shows them.
const DisplayDateLayout = "1/2/2006"

// View-models. Each is built from a freshly fetched slice and never mutated afterwards.
type (
	CategoryRow struct {
		ID   int64
		Name string
	}

	CategoryListView struct {
		Rows []CategoryRow
	}

	Option struct {
		Value string
		Label string
	}

	CategorySelectView struct {
		Options  []Option
		Selected string
	}

	ExpenseRow struct {
		ID   int64
		Text string
	}

	ExpenseListView struct {
		Rows []ExpenseRow
	}
)

func BuildCategoryList(categories []core.Category) CategoryListView {
	rows := make([]CategoryRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, CategoryRow{ID: c.ID, Name: c.Name})
	}
	return CategoryListView{Rows: rows}
}

// BuildCategorySelect puts the placeholder first, then the categories in the order given.
func BuildCategorySelect(categories []core.Category) CategorySelectView {
	opts := make([]Option, 0, len(categories)+1)
	opts = append(opts, Option{Value: "", Label: CategorySelectPlaceholder})
	for _, c := range categories {
		opts = append(opts, Option{Value: strconv.FormatInt(c.ID, 10), Label: c.Name})
	}
	return CategorySelectView{Options: opts}
}

func BuildExpenseList(expenses []core.Expense, currency string) ExpenseListView {
	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, ExpenseRow{ID: e.ID, Text: ExpenseText(e, currency)})
	}
	return ExpenseListView{Rows: rows}
}

// ExpenseText formats one row: "title - <currency>amount (category) - date".
func ExpenseText(e core.Expense, currency string) string {
	date := ""
	if !e.ExpenseDate.IsZero() {
		date = e.ExpenseDate.Format(DisplayDateLayout)
	}
	return fmt.Sprintf("%s - %s%s (%s) - %s", e.Title, currency, core.FormatAmount(e.Amount), e.Category.Name, date)
}
