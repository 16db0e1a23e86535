package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date layout used on the wire and in forms.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Category is a named grouping an expense belongs to.
	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// CategoryRef identifies a category by id only, as sent when creating an expense.
	CategoryRef struct {
		ID int64 `json:"id"`
	}

	// Expense is a single recorded spending entry.
	Expense struct {
		ID          int64    `json:"id"`
		Title       string   `json:"title"`
		Amount      float64  `json:"amount"`
		ExpenseDate Date     `json:"expenseDate"`
		Category    Category `json:"category"`
	}
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCategoryInUse   = errors.New("category is referenced by expenses")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp. Only the calendar part is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the fields the backend needs to persist an expense.
// The title and the category name are not checked: the client sends them as typed.
func (e Expense) Validate() error {
	if e.ExpenseDate.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount < 0 {
		return ErrInvalidAmount
	}
	if _, err := CentsFromAmount(e.Amount); err != nil {
		return err
	}
	if e.Category.ID <= 0 {
		return ErrUnknownCategory
	}
	return nil
}
