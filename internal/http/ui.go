package http

import (
	"context"
	"net/http"
	"strconv"

	"spese/internal/apiclient"
	"spese/internal/controller"
	"spese/internal/core"
	applog "spese/internal/log"
)

type confirmModal struct {
	Message string
	Action  string
}

type editModal struct {
	ID           int64
	Title        string
	Amount       string
	ExpenseDate  string
	CategoryID   string
	CategoryName string
}

// uiContext forwards the end user's address to the REST API.
func (s *Server) uiContext(r *http.Request) context.Context {
	return apiclient.WithForwardedFor(r.Context(), s.detector.ExtractClientIP(r))
}

func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, name string, data any) {
	body, err := s.render(name, data)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.NewFields().WithComponent(applog.ComponentTemplate).WithOperation(applog.OpRender).WithError(err).ToSlice()...)
		InternalServerError("Failed to render page").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// writePartial renders a list region. A failed load keeps what the page already shows.
func (s *Server) writePartial(w http.ResponseWriter, r *http.Request, name string, data any, loadErr error) {
	if loadErr != nil {
		NewHTMXResponse().NoSwap().Write(w)
		return
	}
	s.writeHTML(w, r, name, data)
}

// reloadTrigger adds the reload event of the list a page action changed.
type reloadTrigger func(*HTMXResponseBuilder) *HTMXResponseBuilder

var (
	reloadCategories reloadTrigger = (*HTMXResponseBuilder).TriggerCategoriesReload
	reloadExpenses   reloadTrigger = (*HTMXResponseBuilder).TriggerExpensesReload
)

// writeOutcome turns a controller outcome into HTMX events.
func writeOutcome(w http.ResponseWriter, out controller.Outcome, reload reloadTrigger, closeModal bool) {
	resp := NewHTMXResponse().NoSwap()
	if out.Reload {
		reload(resp)
	}
	if out.ClearForm {
		resp.TriggerFormReset()
	}
	if closeModal {
		resp.TriggerModalClose()
	}
	resp.TriggerNotice(out.Notice).Write(w)
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	data := struct {
		controller.PageData
		Form controller.ExpenseForm
	}{
		PageData: s.expenseCtl.LoadPage(s.uiContext(r)),
		Form:     s.expenseCtl.ClearForm(),
	}
	s.writeHTML(w, r, "expenses.html", data)
}

func (s *Server) handleCategoriesPage(w http.ResponseWriter, r *http.Request) {
	// a failed load renders an empty list
	view, _ := s.categoryCtl.LoadCategories(s.uiContext(r))
	s.writeHTML(w, r, "categories.html", view)
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	view, err := s.categoryCtl.LoadCategories(s.uiContext(r))
	s.writePartial(w, r, "category_list", view, err)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form").Write(w)
		return
	}
	out := s.categoryCtl.AddCategory(s.uiContext(r), formValue(r, "name"))
	writeOutcome(w, out, reloadCategories, false)
}

func (s *Server) handleConfirmDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("Invalid category id").Write(w)
		return
	}
	s.writeHTML(w, r, "confirm_modal", confirmModal{
		Message: "Are you sure you want to delete this category?",
		Action:  "/ui/categories/" + strconv.FormatInt(id, 10) + "/delete",
	})
}

func (s *Server) handleUIDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("Invalid category id").Write(w)
		return
	}
	out := s.categoryCtl.DeleteCategory(s.uiContext(r), id, isConfirmed(r))
	writeOutcome(w, out, reloadCategories, true)
}

func (s *Server) handleCategoryOptions(w http.ResponseWriter, r *http.Request) {
	view, err := s.expenseCtl.LoadCategories(s.uiContext(r))
	s.writePartial(w, r, "category_options", view, err)
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	view, err := s.expenseCtl.LoadExpenses(s.uiContext(r))
	s.writePartial(w, r, "expense_list", view, err)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form").Write(w)
		return
	}
	out := s.expenseCtl.AddExpense(s.uiContext(r), controller.ExpenseForm{
		Title:       formValue(r, "title"),
		Amount:      formValue(r, "amount"),
		ExpenseDate: formValue(r, "expenseDate"),
		CategoryID:  formValue(r, "categoryId"),
	})
	writeOutcome(w, out, reloadExpenses, false)
}

func (s *Server) handleEditExpenseModal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("Invalid expense id").Write(w)
		return
	}
	e, out := s.expenseCtl.LoadExpense(s.uiContext(r), id)
	if out.Err != nil {
		writeOutcome(w, out, reloadExpenses, false)
		return
	}
	s.writeHTML(w, r, "edit_expense_modal", editModal{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       core.FormatAmount(e.Amount),
		ExpenseDate:  e.ExpenseDate.String(),
		CategoryID:   strconv.FormatInt(e.Category.ID, 10),
		CategoryName: e.Category.Name,
	})
}

// handleEditExpense rebuilds the original from the modal's hidden fields and
// lets the controller overwrite title, amount and date.
func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("Invalid expense id").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid form").Write(w)
		return
	}
	categoryID, err := strconv.ParseInt(r.FormValue("categoryId"), 10, 64)
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Edit rejected: invalid category id",
			applog.NewFields().WithComponent(applog.ComponentUI).WithOperation(applog.OpUpdate).WithError(err).ToSlice()...)
		writeOutcome(w, controller.Outcome{Err: err}, reloadExpenses, true)
		return
	}
	original := core.Expense{
		ID:       id,
		Category: core.Category{ID: categoryID, Name: formValue(r, "categoryName")},
	}
	out := s.expenseCtl.EditExpense(s.uiContext(r), original, controller.EditForm{
		Title:       formValue(r, "title"),
		Amount:      formValue(r, "amount"),
		ExpenseDate: formValue(r, "expenseDate"),
	})
	writeOutcome(w, out, reloadExpenses, true)
}

func (s *Server) handleConfirmDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("Invalid expense id").Write(w)
		return
	}
	s.writeHTML(w, r, "confirm_modal", confirmModal{
		Message: "Are you sure you want to delete this expense?",
		Action:  "/ui/expenses/" + strconv.FormatInt(id, 10) + "/delete",
	})
}

func (s *Server) handleUIDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequestError("Invalid expense id").Write(w)
		return
	}
	out := s.expenseCtl.DeleteExpense(s.uiContext(r), id, isConfirmed(r))
	writeOutcome(w, out, reloadExpenses, true)
}
