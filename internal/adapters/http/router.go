package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/gin-exception/internal/adapters/http/handlers"
	"github.com/jsamuelsen/gin-exception/internal/adapters/http/middleware"
	"github.com/jsamuelsen/gin-exception/internal/platform/config"
	"github.com/jsamuelsen/gin-exception/internal/platform/telemetry"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AuthConfig contains authentication header configuration.
	AuthConfig *config.AuthConfig

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// Exceptions renders every error response. Required.
	Exceptions *exception.Manager

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// DemoHandler serves the error demo endpoints under /api/v1. Optional.
	DemoHandler *handlers.DemoHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Request ID - generate/extract request ID
//  2. Correlation ID - handle distributed tracing correlation
//  3. OpenTelemetry - tracing and metrics
//  4. Logging - request logging (skips health endpoints)
//  5. Exception recovery and rendering - installed by the manager
//  6. Recovery - log panics with their stack, render them as 500s
//  7. Timeout - request deadline, API routes only
//
// Unknown routes and methods are answered by the manager's NoRoute and
// NoMethod hooks, which run behind the same middleware.
//
// Route groups:
//   - /-/ (internal): Health endpoints, no auth required
//   - /api/v1/ (public API): Demo endpoints, auth as needed
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(middleware.RequestID(), middleware.CorrelationID())
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	cfg.Exceptions.Install(engine)
	engine.Use(middleware.Recovery(cfg.Exceptions))

	// Register health endpoints (no auth, no timeout for probes)
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	setupAPIRoutes(apiV1, cfg)
}

// setupAPIRoutes registers business API routes.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.DemoHandler != nil {
		cfg.DemoHandler.RegisterRoutes(rg)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints
// and the exception hooks. Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, exceptions *exception.Manager, healthHandler *handlers.HealthHandler) {
	engine.Use(middleware.RequestID())
	exceptions.Install(engine)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	exceptions *exception.Manager,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		Exceptions:    exceptions,
		HealthHandler: healthHandler,
		DemoHandler:   handlers.NewDemoHandler(authCfg),
		Timeout:       DefaultRequestTimeout,
	}
}
