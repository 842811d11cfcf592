package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/budget"
	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/frahmantamala/finance-tracker/internal/expense"
	"github.com/frahmantamala/finance-tracker/internal/report"
	"github.com/frahmantamala/finance-tracker/internal/transport/middleware"
	"github.com/frahmantamala/finance-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, expenseHandler *expense.Handler, budgetHandler *budget.Handler, reportHandler *report.Handler, categoryHandler *category.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public categories route (no identity required)
		if categoryHandler != nil {
			r.Get("/categories", categoryHandler.GetCategories)
		}

		// Everything below needs the caller identity from the gateway
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Identity)

			if expenseHandler != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Post("/", expenseHandler.CreateExpense)
					er.Get("/", expenseHandler.GetExpenses)
					er.Get("/summary", expenseHandler.GetSummary)
					er.Get("/{id}", expenseHandler.GetExpense)
					er.Put("/{id}", expenseHandler.UpdateExpense)
					er.Delete("/{id}", expenseHandler.DeleteExpense)
				})
			}

			if budgetHandler != nil {
				pr.Route("/budgets", func(br chi.Router) {
					br.Post("/", budgetHandler.CreateBudget)
					br.Get("/", budgetHandler.GetBudgets)
					br.Get("/comparison", budgetHandler.GetComparison)
					br.Put("/{id}", budgetHandler.UpdateBudget)
					br.Delete("/{id}", budgetHandler.DeleteBudget)
				})
			}

			if reportHandler != nil {
				pr.Route("/reports", func(rr chi.Router) {
					rr.Post("/generate", reportHandler.GenerateReport)
					rr.Post("/generate-current", reportHandler.GenerateCurrentMonth)
					rr.Get("/recent", reportHandler.GetRecentReports)
					rr.Get("/{year}/{month}", reportHandler.GetMonthlyReport)
				})
			}
		})
	})
}
