package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/money-tracker/internal/handlers"
	"github.com/GregMSThompson/money-tracker/internal/middleware"
)

// NewRouter wires every route. Everything except the magic-link request and
// the health check sits behind auth.
func NewRouter(deps *handlers.Deps, auth *middleware.Middleware, timeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	if timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Mount("/auth", handlers.NewAuthHandlers(deps).AuthRoutes(auth.FirebaseAuth))

	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)

		r.Mount("/accounts", handlers.NewAccountHandlers(deps).AccountRoutes())
		r.Mount("/transactions", handlers.NewTransactionHandlers(deps).TransactionRoutes())
		r.Mount("/dashboard", handlers.NewDashboardHandlers(deps).DashboardRoutes())
		r.Mount("/preferences", handlers.NewPreferencesHandlers(deps).PreferencesRoutes())
	})
	return r
}
