// Command web runs the retail sales dashboard HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"salespulse/internal/config"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/metrics"
	"salespulse/internal/pipeline"
	"salespulse/internal/services"
	"salespulse/internal/store"
	transporthttp "salespulse/internal/transport/http"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments configure via environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	var salesStore services.SalesStore
	if cfg.Storage.Path != "" {
		st, err := store.Open(cfg.Storage.Path,
			store.WithBatchSize(cfg.Storage.BatchSize),
			store.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		salesStore = st
	} else {
		logger.Warn("persistence disabled; no storage path configured")
	}

	registry := prometheus.NewRegistry()
	pipeMetrics := metrics.NewPipeline(registry)

	normalizer := pipeline.NewNormalizer(logger)
	loader := pipeline.NewLoader(normalizer, logger)
	service := services.NewDashboardService(loader, salesStore, exporter.New(logger), pipeMetrics, logger)

	errorHandler := apperrors.NewErrorHandler(logger)
	dashboardHandler := transporthttp.NewDashboardHandler(service, logger, errorHandler, cfg.Upload.MaxBytes)
	healthHandler := transporthttp.NewHealthHandler(version)
	router := transporthttp.NewRouter(dashboardHandler, healthHandler, registry, cfg.RateLimit, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
