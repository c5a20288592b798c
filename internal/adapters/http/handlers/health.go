// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"maps"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/gin-exception/internal/adapters/http/middleware"
	"github.com/jsamuelsen/gin-exception/internal/ports"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// BuildInfo describes the running binary, injected at build time with
// ldflags, and the error media types it negotiates.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`

	// ErrorContentTypes lists the negotiable error media types per handler,
	// keyed by status code or "default".
	ErrorContentTypes map[string][]string `json:"errorContentTypes,omitempty"`
}

// NewBuildInfo creates a BuildInfo for the current Go runtime.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// WithErrorContentTypes returns a copy of b advertising contentTypes.
func (b BuildInfo) WithErrorContentTypes(contentTypes map[string][]string) BuildInfo {
	b.ErrorContentTypes = maps.Clone(contentTypes)
	return b
}

// HealthHandler serves the /-/ probe and introspection endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
	}
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness answers 200 while the process runs. It checks nothing.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs every registered check. A failed check is reported as a
// 503 exception carrying the check results, so probes get the same
// negotiated error body as API clients.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	if result.Status == ports.HealthStatusUnhealthy {
		middleware.AbortWithError(c, exception.ServiceUnavailable("service not ready",
			exception.WithMetadata(map[string]any{
				"status": string(result.Status),
				"checks": result.Checks,
			}),
		))

		return
	}

	c.JSON(http.StatusOK, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

// BuildInfoHandler serves the build information.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler returns the Prometheus scrape handler, exception metrics included.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RegisterHealthRoutes registers on rg:
//   - GET /live
//   - GET /ready
//   - GET /build
//   - GET /metrics
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(MetricsHandler()))
}

// RegisterHealthRoutesOnEngine registers the health routes under /-/.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	h.RegisterHealthRoutes(engine.Group("/-"))
}
