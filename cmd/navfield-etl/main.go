package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/navfield-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/navfield-etl/internal/adapter/kafka"
	mqttadapter "github.com/couchcryptid/navfield-etl/internal/adapter/mqtt"
	"github.com/couchcryptid/navfield-etl/internal/config"
	"github.com/couchcryptid/navfield-etl/internal/domain"
	"github.com/couchcryptid/navfield-etl/internal/observability"
	"github.com/couchcryptid/navfield-etl/internal/pipeline"
)

// sink is a pipeline loader that must be closed on shutdown.
type sink interface {
	pipeline.BatchLoader
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	out, err := newSink(cfg, logger)
	if err != nil {
		logger.Error("failed to create sink", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	units := domain.OutputUnits{Speed: cfg.SpeedUnit, Distance: cfg.DistanceUnit}
	transformer := pipeline.NewTransformer(units, logger, metrics)
	logger.Info("normalizing fixes", "speed_unit", units.Speed, "distance_unit", units.Distance, "sink", cfg.Sink)

	p := pipeline.New(reader, transformer, out, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, transformer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
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
	if err := out.Close(); err != nil {
		logger.Error("sink close error", "sink", cfg.Sink, "error", err)
	}

	logger.Info("shutdown complete")
}

func newSink(cfg *config.Config, logger *slog.Logger) (sink, error) {
	if cfg.Sink == config.SinkMQTT {
		pub, err := mqttadapter.NewPublisher(cfg, logger)
		if err != nil {
			return nil, err
		}
		return pub, nil
	}
	return kafkaadapter.NewWriter(cfg, logger), nil
}
