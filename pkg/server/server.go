// Package server assembles the HTTP router of the admin console API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/chris/settlement-console/pkg/handlers/audit"
	"github.com/chris/settlement-console/pkg/handlers/requests"
	"github.com/chris/settlement-console/pkg/handlers/wallets"
	"github.com/chris/settlement-console/pkg/identity"
	"github.com/chris/settlement-console/pkg/metrics"
	appmw "github.com/chris/settlement-console/pkg/middleware"
	"github.com/chris/settlement-console/pkg/models"
	"github.com/chris/settlement-console/pkg/settlement"
	"github.com/chris/settlement-console/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Ops            settlement.Operations
	Store          storage.QueryStore
	Names          requests.NameResolver
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *metrics.HTTP
	AllowedOrigins []string
}

// NewRouter mounts every route. Health and metrics are public; everything
// else requires the admin identity headers.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.NewStructuredLogger(logger))
	r.Use(appmw.Instrument(d.HTTPMetrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", identity.HeaderAdminID, identity.HeaderAdminLabel},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	requestsHandler := requests.NewRequestsHandler(d.Ops, d.Store, d.Names)
	auditHandler := audit.NewAuditHandler(d.Store)
	walletsHandler := wallets.NewWalletsHandler(d.Store)

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware)

		r.Post("/deposits/{id}/{action}", requestsHandler.Act(models.DEPOSIT))
		r.Post("/withdrawals/{id}/{action}", requestsHandler.Act(models.WITHDRAWAL))

		r.Get("/requests", requestsHandler.ListRequests)
		r.Get("/requests/{id}", requestsHandler.GetRequestById)
		r.Get("/audit", auditHandler.ListAuditEntries)
		r.Get("/wallets/{userId}", walletsHandler.GetWalletByUserId)
	})

	return r
}
