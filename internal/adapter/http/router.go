package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/propledger/propledger/internal/adapter/http/handler"
	"github.com/propledger/propledger/internal/adapter/http/middleware"
	"github.com/propledger/propledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	LedgerHandler         *handler.LedgerHandler
	TransferHandler       *handler.TransferHandler
	ReconciliationHandler *handler.ReconciliationHandler
	ReportHandler         *handler.ReportHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	Logger                zerolog.Logger
	RateLimit             float64
	RateBurst             int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{code}", cfg.AccountHandler.Get)
			r.Post("/{code}/deactivate", cfg.AccountHandler.Deactivate)
			r.Post("/{code}/reactivate", cfg.AccountHandler.Reactivate)
			r.Get("/{code}/balance", cfg.ReportHandler.AccountBalance)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.PostDoubleEntry)
			r.Post("/charges", cfg.LedgerHandler.PostChargeBatch)
			r.Get("/", cfg.ReportHandler.ListEntries)
			r.Get("/{id}", cfg.LedgerHandler.GetEntry)
			r.Post("/{id}/void", cfg.LedgerHandler.VoidEntry)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", cfg.TransferHandler.Initiate)
			r.Get("/", cfg.TransferHandler.List)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Post("/{id}/settle", cfg.TransferHandler.Settle)
			r.Post("/{id}/reverse", cfg.TransferHandler.Reverse)
		})

		r.Route("/reconciliations", func(r chi.Router) {
			r.Post("/", cfg.ReconciliationHandler.ImportStatement)
			r.Get("/{id}", cfg.ReconciliationHandler.Get)
			r.Get("/{id}/lines", cfg.ReconciliationHandler.ListLines)
			r.Post("/{id}/entries", cfg.ReconciliationHandler.RecordEntry)
			r.Post("/{id}/finalize", cfg.ReconciliationHandler.Finalize)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
			r.Get("/aged-receivables", cfg.ReportHandler.AgedReceivables)
			r.Get("/income-statement", cfg.ReportHandler.IncomeStatement)
		})

		r.Get("/leases/{leaseID}/balance", cfg.ReportHandler.LeaseBalance)
	})

	return r
}
