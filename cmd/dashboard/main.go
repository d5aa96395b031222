package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/api"
	httpadapter "github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hfrat-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/config"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/observability"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/pipeline"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/snapshot"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(api.Options{
		BaseURL:    cfg.APIBaseURL,
		Token:      cfg.APIToken,
		Timeout:    cfg.APITimeout,
		RetryCount: cfg.APIRetryCount,
	}, logger, metrics)

	// Service credentials take precedence over a static token. The client
	// logs in again on its own when the access token expires.
	if cfg.APIUsername != "" {
		if err := client.LoginAs(ctx, cfg.APIUsername, cfg.APIPassword); err != nil {
			logger.Error("reporting api login failed", "error", err, "username", cfg.APIUsername)
			os.Exit(1)
		}
		logger.Info("logged in to reporting api", "username", cfg.APIUsername)
	}

	store := snapshot.NewStore()
	trends := api.NewCachedTrendSource(client, cfg.TrendCacheSize, metrics)

	opts := []pipeline.Option{
		pipeline.WithSinks(pipeline.Sink{Name: "trend-cache", SnapshotSink: trends}),
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithSinks(pipeline.Sink{Name: "kafka", SnapshotSink: writer}))
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaDashboardTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	p := pipeline.New(client, store, logger, metrics, cfg.PollInterval, opts...)

	deps := httpadapter.Dependencies{
		Ready:              p,
		Dashboards:         store,
		Refresher:          p,
		Trends:             trends,
		StrictStatusFilter: cfg.StrictStatusFilter,
	}
	if cfg.RequireRole {
		deps.Roles = client
		logger.Info("dashboard role gate enabled")
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, deps, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start poller.
	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := p.Run(ctx); err != nil {
			logger.Error("poller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-pollerDone:
	case <-shutdownCtx.Done():
		logger.Warn("poller did not stop before shutdown timeout")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
