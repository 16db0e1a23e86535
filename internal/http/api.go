package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spese/internal/core"
	applog "spese/internal/log"
)

// statusFor maps domain errors to REST status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrCategoryInUse):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidDate), errors.Is(err, core.ErrInvalidAmount), errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "API request failed",
			applog.NewFields().WithComponent(applog.ComponentAPI).WithOperation(op).WithError(err).ToSlice()...)
		msg = "internal error"
	}
	writeError(w, status, msg)
}

// decodeValidated reads the body, checks it against schema and decodes it into v.
func (s *Server) decodeValidated(w http.ResponseWriter, r *http.Request, schema string, v any) bool {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := s.schemas.validate(schema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	// The schema checks JSON types only; values such as an id beyond int64 or a
	// malformed date still fail here and are the client's fault.
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.ListCategories(r.Context())
	if err != nil {
		s.apiError(w, r, "list categories", err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in core.Category
	if !s.decodeValidated(w, r, schemaCategory, &in) {
		return
	}
	created, err := s.categories.CreateCategory(r.Context(), in.Name)
	if err != nil {
		s.apiError(w, r, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.apiError(w, r, "update category", err)
		return
	}
	var in core.Category
	if !s.decodeValidated(w, r, schemaCategory, &in) {
		return
	}
	updated, err := s.categories.UpdateCategory(r.Context(), id, in.Name)
	if err != nil {
		s.apiError(w, r, "update category", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.apiError(w, r, "delete category", err)
		return
	}
	if err := s.categories.DeleteCategory(r.Context(), id); err != nil {
		s.apiError(w, r, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListExpenses(r.Context())
	if err != nil {
		s.apiError(w, r, "list expenses", err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.apiError(w, r, "get expense", err)
		return
	}
	e, err := s.expenses.GetExpense(r.Context(), id)
	if err != nil {
		s.apiError(w, r, "get expense", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in core.Expense
	if !s.decodeValidated(w, r, schemaExpenseCreate, &in) {
		return
	}
	in.ID = 0
	created, err := s.expenses.CreateExpense(r.Context(), in)
	if err != nil {
		s.apiError(w, r, "create expense", err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense created",
		applog.NewFields().
			WithComponent(applog.ComponentExpense).
			WithOperation(applog.OpCreate).
			WithExpense(created.ID, created.Title, created.Amount).
			WithCategory(created.Category.ID, created.Category.Name).
			ToSlice()...)
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateExpense replaces the whole expense; the path id wins over the body id.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.apiError(w, r, "update expense", err)
		return
	}
	var in core.Expense
	if !s.decodeValidated(w, r, schemaExpenseUpdate, &in) {
		return
	}
	in.ID = id
	updated, err := s.expenses.UpdateExpense(r.Context(), in)
	if err != nil {
		s.apiError(w, r, "update expense", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.apiError(w, r, "delete expense", err)
		return
	}
	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		s.apiError(w, r, "delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
