package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/orders-ms/internal/config"
	"github.com/jcmexdev/orders-ms/internal/order-service/app"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"
	"github.com/jcmexdev/orders-ms/internal/order-service/infra/catalog"
	"github.com/jcmexdev/orders-ms/internal/order-service/infra/httpx"
	"github.com/jcmexdev/orders-ms/internal/order-service/infra/sqlite"
	"github.com/jcmexdev/orders-ms/internal/pkg/cache"
	"github.com/jcmexdev/orders-ms/internal/pkg/metrics"
	"github.com/jcmexdev/orders-ms/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "orders-service"))
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	repo, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open order store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	m := metrics.New("orders_service")

	var productCatalog ports.ProductCatalog
	if cfg.CatalogValidation {
		productCatalog = catalog.NewHTTPClient(cfg.ProductServiceURL, cfg.CatalogTimeout, m)
	} else {
		slog.Warn("catalog validation disabled, every product id will be accepted")
		productCatalog = catalog.NewNoop()
	}

	var idempotencyCache cache.Cache
	if cfg.RedisAddr != "" {
		idempotencyCache = cache.NewRedisCache(cfg.RedisAddr, "orders")
	}

	workflow := app.NewOrderService(repo, productCatalog, nil, m)
	handler := httpx.NewHandler(workflow, idempotencyCache)
	router := httpx.NewRouter(handler)

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		slog.Info("orders service running", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down orders service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
