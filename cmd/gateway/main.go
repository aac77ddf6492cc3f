package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Mongkol7/E-Bookstore/api/controllers"
	"github.com/Mongkol7/E-Bookstore/api/routes"
	"github.com/Mongkol7/E-Bookstore/internal/admin"
	"github.com/Mongkol7/E-Bookstore/internal/cart"
	"github.com/Mongkol7/E-Bookstore/internal/catalog"
	"github.com/Mongkol7/E-Bookstore/internal/checkout"
	"github.com/Mongkol7/E-Bookstore/internal/orders"
	"github.com/Mongkol7/E-Bookstore/internal/session"
	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	"github.com/Mongkol7/E-Bookstore/pkg/config"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
	"github.com/Mongkol7/E-Bookstore/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var store session.Store
	var storePing controllers.Pinger
	if cfg.Redis.Enabled() {
		redisStore, err := session.NewRedisStore(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis session store", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis session store", err)
			}
		}()
		store = redisStore
		storePing = redisStore
	} else {
		logg.Warn(context.Background(), "redis url not set, using in-memory session store")
		store = session.NewMemoryStore()
	}

	sessionManager, err := session.NewManager(store, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	backend, err := upstream.New(cfg.Upstream)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Metrics:   httpMetrics,
		Registry:  registry,
		Sessions:  sessionManager,
		Carts:     cart.NewRegistry(backend),
		Checkouts: checkout.NewRegistry(backend),
		Catalog:   catalog.NewService(backend),
		Orders:    orders.NewService(backend, sessionManager),
		Admin:     admin.NewService(backend),
		Auth:      backend,
		StorePing: storePing,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "gateway stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
