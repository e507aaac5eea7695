package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/waypoint/internal/config"
	"github.com/UnknownOlympus/waypoint/internal/geocoding"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/pipeline"
	"github.com/UnknownOlympus/waypoint/internal/resolver"
	"github.com/UnknownOlympus/waypoint/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Build the two geocoding providers. Credentials are injected here
	// once; a missing credential disables that provider.
	providerConfig := geocoding.ProviderConfig{
		GoogleAPIKey: cfg.GoogleAPIKey,
		AmapAPIKey:   cfg.AmapAPIKey,
		Timeout:      cfg.ProviderTimeout,
		Logger:       logger,
	}

	primary, err := geocoding.NewPrimary(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create primary geocoding provider: %v", err)
	}
	secondary := geocoding.NewSecondary(providerConfig)

	logger.InfoContext(ctx, "Geocoding providers initialized",
		"primary_enabled", cfg.GoogleAPIKey != "",
		"secondary_enabled", cfg.AmapAPIKey != "")

	// Wire the arbitration core and the batch pipeline.
	arbitrator := resolver.New(primary, secondary, cfg.GoogleAPIKey, logger, appMetrics)
	batchPipeline := pipeline.New(arbitrator, logger, appMetrics, cfg.Workers)

	// Make sure the download folder exists before accepting uploads.
	if err = os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		log.Fatalf("Failed to create download folder: %v", err)
	}

	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	srv := server.New(batchPipeline, logger, cfg.DownloadDir, cfg.MaxUploadMB, metricsHandler)

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = srv.Run(ctx, cfg.Port); err != nil {
		logger.ErrorContext(ctx, "Upload server stopped with error", "error", err)
		os.Exit(1)
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelWarn,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		logger = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelError,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		logger.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return logger
}
