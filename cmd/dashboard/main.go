// Command dashboard loads the hazard datasets, then turns selection updates
// from Kafka into dashboard views published back to Kafka.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hazard-dashboard/internal/adapter/dataset"
	httpadapter "github.com/couchcryptid/hazard-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hazard-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-dashboard/internal/config"
	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/couchcryptid/hazard-dashboard/internal/observability"
	"github.com/couchcryptid/hazard-dashboard/internal/pipeline"
	"github.com/couchcryptid/hazard-dashboard/internal/selection"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ds, err := dataset.Load(cfg.DataDir, dataset.FilesFrom(cfg), logger)
	if err != nil {
		logger.Error("failed to load datasets", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	reg, err := domain.NewRegistry(ds, domain.RegistryOptions{CountryRegion: domain.Region(cfg.CountryRegion)})
	if err != nil {
		logger.Error("invalid datasets", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	metrics.RecordDatasetRows(reg.RowCounts())
	logger.Info("datasets loaded",
		"dir", cfg.DataDir,
		"regions", len(engine.RegionOptions(reg)),
		"hazard_categories", len(reg.HazardCategories()),
		"country_region", reg.CountryRegion(),
	)

	eng := engine.New(reg, engine.Options{FilterSeriesByCategory: cfg.SeriesFilterCategory}, metrics)
	deriver, err := engine.NewCachedDeriver(eng, cfg.ViewCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create view cache", "error", err)
		os.Exit(1)
	}
	sessions := selection.NewSessions(eng)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(sessions, deriver, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, reg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start selection pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete", "sessions", sessions.Len(), "cached_views", deriver.Len())
}
