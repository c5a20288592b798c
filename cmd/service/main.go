// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/gin-exception/internal/adapters/http"
	"github.com/jsamuelsen/gin-exception/internal/adapters/http/handlers"
	"github.com/jsamuelsen/gin-exception/internal/platform/config"
	"github.com/jsamuelsen/gin-exception/internal/platform/i18n"
	"github.com/jsamuelsen/gin-exception/internal/platform/logging"
	"github.com/jsamuelsen/gin-exception/internal/platform/telemetry"
	"github.com/jsamuelsen/gin-exception/internal/ports"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Load translations for localized error messages
	bundle, err := i18n.NewBundle(cfg.Exception.DefaultLanguage, cfg.Exception.TranslationsDir)
	if err != nil {
		return fmt.Errorf("loading translations: %w", err)
	}

	logger.Debug("translations loaded", slog.Any("languages", i18n.Languages(bundle)))

	// 6. Create exception metrics and the exception manager
	metrics, err := telemetry.NewExceptionMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("creating exception metrics: %w", err)
	}

	exceptions, err := http.NewExceptions(&cfg.Exception, logger,
		exception.WithObserver(metrics),
		exception.WithBundle(bundle),
	)
	if err != nil {
		return fmt.Errorf("creating exception manager: %w", err)
	}

	// 7. Create health registry
	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(ports.DefaultCheckTimeout))

	if err := healthRegistry.Register(exceptions); err != nil {
		return fmt.Errorf("registering exception health check: %w", err)
	}

	logger.Debug("health checks registered", slog.Any("checks", healthRegistry.Names()))

	// 8. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime).
		WithErrorContentTypes(exceptions.ContentTypes())
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)

	// 9. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 10. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.Auth, exceptions.Manager, healthHandler)
	http.SetupRouter(server.Engine(), routerCfg)

	// 11. Start server (non-blocking)
	serverErr := server.Start()

	// 12. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
