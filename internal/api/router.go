package api

import (
	"github.com/ayo6706/ledger-migration/internal/api/handler"
	"github.com/ayo6706/ledger-migration/internal/api/middleware"
	"github.com/ayo6706/ledger-migration/internal/api/spec"
	"github.com/ayo6706/ledger-migration/internal/repository"
	"github.com/ayo6706/ledger-migration/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Router wires the operational endpoints of the migration driver.
type Router struct {
	logger *zap.Logger
	ledger *pgxpool.Pool
	legacy *pgxpool.Pool
	redis  redis.Cmdable
	store  *repository.Store
	worker *worker.MigrationWorker
}

func NewRouter(logger *zap.Logger, ledger, legacy *pgxpool.Pool, redis redis.Cmdable, store *repository.Store, w *worker.MigrationWorker) *Router {
	return &Router{logger: logger, ledger: ledger, legacy: legacy, redis: redis, store: store, worker: w}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	healthHandler := handler.NewHealthHandler(api.ledger, api.legacy, api.redis)
	statusHandler := handler.NewStatusHandler(api.worker, api.store)
	walletHandler := handler.NewWalletHandler(api.store.Queries())

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())

	r.Get("/v1/migration/status", statusHandler.Status)
	r.Get("/v1/wallets/{id}/balances", walletHandler.Balances)
	r.Get("/v1/wallets/{id}/balances/{currency}", walletHandler.CurrencyBalance)

	return r
}
