package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/forest-cover-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/forest-cover-service/internal/adapter/kafka"
	"github.com/couchcryptid/forest-cover-service/internal/config"
	"github.com/couchcryptid/forest-cover-service/internal/inference"
	"github.com/couchcryptid/forest-cover-service/internal/model"
	"github.com/couchcryptid/forest-cover-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Load failures leave the service running in degraded mode.
	provider := model.Load(model.LoadOptions{
		ModelPath:        cfg.ModelPath,
		ModelFormat:      cfg.ModelFormat,
		PreprocessorPath: cfg.PreprocessorPath,
		Threads:          cfg.InferenceThreads,
	}, logger)

	// Prediction events are feature-flagged via KAFKA_BROKERS.
	var (
		publisher inference.EventPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("prediction events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaPredictionsTopic)
	} else {
		logger.Info("prediction events disabled")
	}

	svc := inference.New(provider, publisher, logger, metrics)
	if h := svc.Health(); h.Status != inference.StatusOK {
		logger.Error("starting degraded: predictions will return 503",
			"model_loaded", h.ModelLoaded, "preprocessor_loaded", h.PreprocessorLoaded)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.MaxUploadBytes, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
