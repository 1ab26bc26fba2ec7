package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"supermart-dashboard/internal/config"
	"supermart-dashboard/internal/dataset"
	"supermart-dashboard/internal/middleware"
	"supermart-dashboard/internal/observability"
	"supermart-dashboard/internal/server"
	"supermart-dashboard/internal/services"
	"supermart-dashboard/internal/store"
)

const sourceLoadTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"source", cfg.Source.CSVFile,
		"reload_ttl", cfg.Source.ReloadTTL,
	)

	loader := dataset.NewLoader(cfg.Source.CSVFile, logger)
	recordStore := store.New(loader, cfg.Source.ReloadTTL, logger)

	// Initial load is fatal: serving fabricated "no data" results when the
	// source is missing or malformed is worse than not starting.
	ctx, cancel := context.WithTimeout(context.Background(), sourceLoadTimeout)
	defer cancel()
	if err := recordStore.EnsureFresh(ctx); err != nil {
		logger.Error("failed to load sales source", "error", err)
		os.Exit(1)
	}

	analytics := services.NewAnalytics(recordStore, logger)
	srv := server.NewServer(analytics, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics pipeline")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
