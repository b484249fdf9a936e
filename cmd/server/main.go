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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"bazar/m/internal/api"
	"bazar/m/internal/cache"
	"bazar/m/internal/config"
	"bazar/m/internal/database"
	"bazar/m/internal/migrations"
	"bazar/m/internal/observability"
	"bazar/m/internal/port"
	"bazar/m/internal/seed"
	"bazar/m/internal/service"
	"bazar/m/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OtelEndpoint)
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("connected to database", zap.String("driver", cfg.DatabaseDriver))

	if err := migrations.Run(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	seed.LoadProducts(db, cfg.ProductCatalog, logger)

	var guard port.IdempotencyGuard
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		guard = cache.NewRedisGuard(rdb, cache.DefaultIdempotencyTTL)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	store := storage.NewStore(db)
	auth := service.NewAuthService(store, logger)
	if cfg.AdminUsername != "" {
		created, err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
		if created {
			logger.Info("bootstrap admin created", zap.String("username", cfg.AdminUsername))
		}
	}

	handler := api.New(api.Services{
		Products:  service.NewProductService(store, logger),
		Customers: service.NewCustomerService(store, logger),
		Sales:     service.NewSaleService(store, guard, logger),
		Auth:      auth,
	}, cfg.Secret, cfg.LowStockThreshold, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("bazar POS server starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracer shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
