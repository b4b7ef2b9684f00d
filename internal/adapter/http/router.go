package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/omnibank/walletd/internal/adapter/http/handler"
	"github.com/omnibank/walletd/internal/adapter/http/middleware"
	"github.com/omnibank/walletd/internal/infrastructure/auth"
	"github.com/omnibank/walletd/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	WalletHandler      *handler.WalletHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Post("/", cfg.TransactionHandler.Create)
			})
		})

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Get("/overview", cfg.WalletHandler.Overview)
		})

		// Staff-only surfaces
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireStaff)
			r.Get("/dashboard", cfg.WalletHandler.Dashboard)
			r.Get("/ledger/consistency", cfg.LedgerHandler.Consistency)
		})
	})

	return r
}
