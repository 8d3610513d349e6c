package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ayo6706/ledger-migration/internal/api"
	"github.com/ayo6706/ledger-migration/internal/config"
	"github.com/ayo6706/ledger-migration/internal/db"
	"github.com/ayo6706/ledger-migration/internal/leader"
	"github.com/ayo6706/ledger-migration/internal/migration"
	"github.com/ayo6706/ledger-migration/internal/observability"
	"github.com/ayo6706/ledger-migration/internal/repository"
	"github.com/ayo6706/ledger-migration/internal/schema"
	"github.com/ayo6706/ledger-migration/internal/worker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const leaderLockKey = "ledger-migration:driver"

// Run bootstraps the migration driver and ops server, blocking until the
// migration completes, fails, or a shutdown signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledgerPool, err := db.Connect(ctx, cfg.LedgerDatabaseURL)
	if err != nil {
		return fmt.Errorf("connect ledger database: %w", err)
	}
	defer ledgerPool.Close()

	legacyPool, err := db.Connect(ctx, cfg.LegacyDatabaseURL)
	if err != nil {
		return fmt.Errorf("connect legacy database: %w", err)
	}
	defer legacyPool.Close()

	if err := schema.Migrate(cfg.LedgerDatabaseURL); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = newRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()

		lock := leader.New(redisClient, leaderLockKey, cfg.LeaderLockTTL)
		if err := lock.Acquire(ctx); err != nil {
			return fmt.Errorf("acquire leader lock: %w", err)
		}
		stopKeep := lock.Keep(ctx)
		defer func() {
			stopKeep()
			releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer releaseCancel()
			lock.Release(releaseCtx)
		}()
		logger.Info("leader lock acquired", zap.String("key", leaderLockKey))
	} else {
		logger.Warn("redis not configured, running without leader lock")
	}

	store := repository.NewStore(ledgerPool)
	legacyRepo := repository.NewLegacyRepository(legacyPool)
	builder := migration.NewBuilder(store)

	migrationWorker := worker.NewMigrationWorker(legacyRepo, store, builder).WithDelay(cfg.RowDelay)

	router := api.NewRouter(logger, ledgerPool, legacyPool, cmdable(redisClient), store, migrationWorker)
	server := &http.Server{
		Addr:         cfg.OpsAddr,
		Handler:      router.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("ops server starting", zap.String("addr", cfg.OpsAddr))
		serverErr <- server.ListenAndServe()
	}()

	workerErr := make(chan error, 1)
	go func() {
		logger.Info("migration driver starting", zap.Duration("row_delay", cfg.RowDelay))
		workerErr <- migrationWorker.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
		migrationWorker.Stop()
		if err := <-workerErr; err != nil {
			runErr = err
		}
	case err := <-workerErr:
		if err != nil {
			logger.Error("migration driver halted", zap.Error(err))
			runErr = fmt.Errorf("migration driver: %w", err)
		} else {
			logger.Info("migration driver finished")
		}
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			migrationWorker.Stop()
			<-workerErr
			return fmt.Errorf("ops server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ops server shutdown failed", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return runErr
}

// cmdable avoids handing a typed-nil *redis.Client to consumers that
// nil-check the interface.
func cmdable(client *redis.Client) redis.Cmdable {
	if client == nil {
		return nil
	}
	return client
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func newRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
