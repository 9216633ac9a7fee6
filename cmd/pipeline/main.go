package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/adapter/http"
	kafkaadapter "github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/adapter/kafka"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/adapter/kma"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/adapter/s3"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/config"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/observability"
	"github.com/aboutexo04/mlops-cloud-project-mlops-7/internal/pipeline"
)

func main() {
	once := flag.Bool("once", false, "run a single ingestion cycle and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := s3.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect to artifact store", "error", err)
		os.Exit(1)
	}
	weatherStore := s3.NewWeatherStore(store, logger)

	client := kma.NewClient(cfg, logger)

	// Publisher is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var closer interface{ Close() error }
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		publisher = p
		closer = p
		logger.Info("feature publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("feature publishing disabled")
	}

	p := pipeline.New(client, weatherStore, publisher, logger, metrics)

	if *once {
		if err := p.Run(ctx, previousHour(time.Now())); err != nil {
			logger.Error("pipeline run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, weatherStore, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go runLoop(ctx, p, cfg.PipelineInterval, logger)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// runLoop runs one cycle immediately, then on every interval tick until the
// context is cancelled. Each cycle targets the previous full hour, matching
// the upstream publication delay.
func runLoop(ctx context.Context, p *pipeline.Pipeline, interval time.Duration, logger *slog.Logger) {
	run := func() {
		if err := p.Run(ctx, previousHour(time.Now())); err != nil && ctx.Err() == nil {
			logger.Error("pipeline run failed", "error", err)
		}
	}

	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

func previousHour(now time.Time) time.Time {
	return now.UTC().Truncate(time.Hour).Add(-time.Hour)
}
