package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"spese/internal/controller"
	applog "spese/internal/log"
	"spese/internal/middleware/ratelimit"
	"spese/internal/middleware/security"
	"spese/internal/middleware/trace"
	"spese/internal/services"
	appweb "spese/web"
)

// UIClient is what the page controllers need from the REST API client.
type UIClient interface {
	controller.CategoryAPI
	controller.ExpenseAPI
}

// Deps are the collaborators of the server.
type Deps struct {
	Categories *services.CategoryService
	Expenses   *services.ExpenseService
	// Ready reports storage readiness for /readyz. Nil means always ready.
	Ready func(ctx context.Context) error

	// API is used by the page handlers to reach the REST endpoints.
	API                UIClient
	Currency           string
	RateLimitPerMinute int
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	templates   *template.Template
	schemas     schemaSet
	categories  *services.CategoryService
	expenses    *services.ExpenseService
	ready       func(ctx context.Context) error
	categoryCtl *controller.CategoryController
	expenseCtl  *controller.ExpenseController
	limiter     *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware
	logger      *applog.Logger
	started     time.Time
}

func NewServer(addr string, deps Deps) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	reporter := controller.NewReporter(logger.WithComponent(applog.ComponentController))
	detector := security.NewDetector()

	s := &Server{
		templates:   t,
		schemas:     schemas,
		categories:  deps.Categories,
		expenses:    deps.Expenses,
		ready:       deps.Ready,
		categoryCtl: controller.NewCategoryController(deps.API, reporter),
		expenseCtl:  controller.NewExpenseController(deps.API, reporter, deps.Currency),
		limiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		detector:    detector,
		tracer:      trace.NewMiddleware(detector.ExtractClientIP),
		logger:      logger,
		started:     time.Now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	// Page mutations are counted once, when they reach the REST API.
	limited := s.limiter.Middleware(detector.ExtractClientIP, s.handleRateLimited)(mux)
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ui/") {
			mux.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = detector.Middleware(h)
	h = s.tracer.Middleware(h)
	h = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	// REST API
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("GET /expenses", s.handleListExpenses)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.handleDeleteExpense)

	// Pages
	mux.HandleFunc("GET /{$}", s.handleExpensesPage)
	mux.HandleFunc("GET /categories/page", s.handleCategoriesPage)

	// Category page partials
	mux.HandleFunc("GET /ui/categories/list", s.handleCategoryList)
	mux.HandleFunc("POST /ui/categories", s.handleAddCategory)
	mux.HandleFunc("GET /ui/categories/{id}/confirm-delete", s.handleConfirmDeleteCategory)
	mux.HandleFunc("POST /ui/categories/{id}/delete", s.handleUIDeleteCategory)

	// Expense page partials
	mux.HandleFunc("GET /ui/expenses/category-options", s.handleCategoryOptions)
	mux.HandleFunc("GET /ui/expenses/list", s.handleExpenseList)
	mux.HandleFunc("POST /ui/expenses", s.handleAddExpense)
	mux.HandleFunc("GET /ui/expenses/{id}/edit", s.handleEditExpenseModal)
	mux.HandleFunc("PUT /ui/expenses/{id}", s.handleEditExpense)
	mux.HandleFunc("GET /ui/expenses/{id}/confirm-delete", s.handleConfirmDeleteExpense)
	mux.HandleFunc("POST /ui/expenses/{id}/delete", s.handleUIDeleteExpense)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", "error", err)
	}
}

// Shutdown stops background work and drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

// render executes a template into a buffer so a failure never sends half a page.
func (s *Server) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"requests":  s.tracer.TotalRequests(),
	})
}

// handleReady checks storage with a short timeout
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"templates": "ok", "storage": "ok"}
	status, code := "ready", http.StatusOK
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["storage"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
