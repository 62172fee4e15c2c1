package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mebelpos/mebelpos/internal/auth"
	"github.com/mebelpos/mebelpos/internal/catalog"
	"github.com/mebelpos/mebelpos/internal/customers"
	"github.com/mebelpos/mebelpos/internal/debts"
	"github.com/mebelpos/mebelpos/internal/observability"
	"github.com/mebelpos/mebelpos/internal/pos"
	"github.com/mebelpos/mebelpos/internal/receipts"
	"github.com/mebelpos/mebelpos/internal/staff"
	"github.com/mebelpos/mebelpos/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	AuthMiddleware   *auth.Middleware
	CatalogHandler   *catalog.Handler
	CustomersHandler *customers.Handler
	DebtsHandler     *debts.Handler
	POSHandler       *pos.Handler
	ReceiptsHandler  *receipts.Handler
	StaffHandler     *staff.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Mebel POS defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAuth)

			r.Route("/products", params.CatalogHandler.MountRoutes)
			r.Route("/customers", params.CustomersHandler.MountRoutes)
			r.Route("/debts", params.DebtsHandler.MountRoutes)
			r.Route("/pos", params.POSHandler.MountRoutes)
			r.Route("/receipts", params.ReceiptsHandler.MountRoutes)
			r.Route("/staff", params.StaffHandler.MountRoutes)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
