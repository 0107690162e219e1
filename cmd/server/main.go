package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/david/donor-concierge/internal/api"
	"github.com/david/donor-concierge/internal/cache"
	"github.com/david/donor-concierge/internal/concierge"
	"github.com/david/donor-concierge/internal/config"
	"github.com/david/donor-concierge/internal/db"
	"github.com/david/donor-concierge/internal/logging"
	"github.com/david/donor-concierge/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	store := db.NewStore(pool)
	reg := prometheus.NewRegistry()
	opts := []concierge.Option{
		concierge.WithLogger(logger),
		concierge.WithMetrics(metrics.NewConciergeMetrics(reg)),
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable; running without vision cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			opts = append(opts, concierge.WithCache(cache.NewVisionCache(rdb, cfg.VisionCacheTTL)))
			logger.Info("vision cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.VisionCacheTTL))
		}
	}

	svc := concierge.NewService(store, opts...)
	srv := api.NewServer(svc, store, cfg, logger, reg)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
