package memory

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"spese/internal/core"
	"spese/internal/store"
)

// Store keeps categories and expenses in process memory. Ids are assigned
// monotonically and never reused.
type Store struct {
	mu         sync.Mutex
	categories []core.Category
	expenses   []expenseRow
	audit      []store.AuditEntry
	nextCat    int64
	nextExp    int64
}

type expenseRow struct {
	id         int64
	title      string
	cents      int64
	date       core.Date
	categoryID int64
}

// New returns a store seeded with the given category names.
func New(categories []string) *Store {
	s := &Store{nextCat: 1, nextExp: 1}
	for _, name := range dedupe(categories) {
		s.categories = append(s.categories, core.Category{ID: s.nextCat, Name: name})
		s.nextCat++
	}
	return s
}

// NewFromFile seeds categories from a file with one name per line. Blank lines and
// lines starting with # are skipped. A missing file yields an empty store.
func NewFromFile(path string) *Store {
	if path == "" {
		return New(nil)
	}
	return New(readLines(path))
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) CreateCategory(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := core.Category{ID: s.nextCat, Name: name}
	s.nextCat++
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, id int64, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
			return s.categories[i], nil
		}
	}
	return core.Category{}, core.ErrNotFound
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.categoryIndex(id)
	if idx < 0 {
		return core.ErrNotFound
	}
	for _, e := range s.expenses {
		if e.categoryID == id {
			return core.ErrCategoryInUse
		}
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	return nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, row := range s.expenses {
		out = append(out, s.toExpense(row))
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.expenses {
		if row.id == id {
			return s.toExpense(row), nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryIndex(e.Category.ID) < 0 {
		return core.Expense{}, core.ErrUnknownCategory
	}
	cents, err := core.CentsFromAmount(e.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	row := expenseRow{
		id:         s.nextExp,
		title:      e.Title,
		cents:      cents,
		date:       e.ExpenseDate,
		categoryID: e.Category.ID,
	}
	s.nextExp++
	s.expenses = append(s.expenses, row)
	return s.toExpense(row), nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.categoryIndex(e.Category.ID) < 0 {
		return core.Expense{}, core.ErrUnknownCategory
	}
	cents, err := core.CentsFromAmount(e.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	for i := range s.expenses {
		if s.expenses[i].id != e.ID {
			continue
		}
		s.expenses[i] = expenseRow{
			id:         e.ID,
			title:      e.Title,
			cents:      cents,
			date:       e.ExpenseDate,
			categoryID: e.Category.ID,
		}
		return s.toExpense(s.expenses[i]), nil
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].id == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// RecordAudit implements store.AuditRecorder.
func (s *Store) RecordAudit(_ context.Context, entry store.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.audit {
		if a.EventID == entry.EventID {
			return nil
		}
	}
	s.audit = append(s.audit, entry)
	return nil
}

// AuditEntries returns a copy of the recorded audit log.
func (s *Store) AuditEntries() []store.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.AuditEntry(nil), s.audit...)
}

func (s *Store) Close() error { return nil }

// caller holds s.mu
func (s *Store) categoryIndex(id int64) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// caller holds s.mu
func (s *Store) toExpense(row expenseRow) core.Expense {
	e := core.Expense{
		ID:          row.id,
		Title:       row.title,
		Amount:      core.AmountFromCents(row.cents),
		ExpenseDate: row.date,
		Category:    core.Category{ID: row.categoryID},
	}
	if idx := s.categoryIndex(row.categoryID); idx >= 0 {
		e.Category.Name = s.categories[idx].Name
	}
	return e
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
