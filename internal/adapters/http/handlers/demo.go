package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/gin-exception/internal/adapters/http/dto"
	"github.com/jsamuelsen/gin-exception/internal/adapters/http/middleware"
	"github.com/jsamuelsen/gin-exception/internal/platform/config"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// maxDemoDelay caps the delay accepted by the slow endpoint.
const maxDemoDelay = time.Minute

// errUpstream is the raw failure reported by the fail endpoint.
var errUpstream = errors.New("upstream connection reset")

// DemoHandler exposes endpoints that produce every kind of error the
// exception manager renders. They exist to exercise content negotiation
// end to end and carry no business logic.
type DemoHandler struct {
	auth *config.AuthConfig
}

// NewDemoHandler creates a demo handler. auth configures the claim headers
// of the protected endpoints.
func NewDemoHandler(auth *config.AuthConfig) *DemoHandler {
	return &DemoHandler{auth: auth}
}

// Status handles GET /errors/:status by failing with that status.
// The optional message and title query parameters are passed through.
func (h *DemoHandler) Status(c *gin.Context) {
	status, err := strconv.Atoi(c.Param("status"))
	if err != nil {
		_ = c.Error(exception.BadRequest("status must be a number",
			exception.WithMetadata(map[string]any{"status": c.Param("status")}),
		))

		return
	}

	var query dto.StatusQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		_ = c.Error(dto.ToHTTPError(err))
		return
	}

	var opts []exception.Option
	if query.Title != "" {
		opts = append(opts, exception.WithTitle(query.Title))
	}

	_ = c.Error(exception.New(status, query.Message, opts...))
}

// Fail handles GET /fail by reporting a raw error, rendered as an unexpected 500.
func (h *DemoHandler) Fail(c *gin.Context) {
	_ = c.Error(errUpstream)
}

// Panic handles GET /panic.
func (h *DemoHandler) Panic(c *gin.Context) {
	panic("demo panic")
}

// Slow handles GET /slow by waiting for the delay query parameter or the
// request deadline, whichever comes first.
func (h *DemoHandler) Slow(c *gin.Context) {
	delay, err := time.ParseDuration(c.DefaultQuery("delay", "1s"))
	if err != nil || delay < 0 || delay > maxDemoDelay {
		_ = c.Error(exception.BadRequest("delay must be a duration between 0s and " + maxDemoDelay.String()))
		return
	}

	select {
	case <-c.Request.Context().Done():
		// The timeout middleware reports the expired deadline.
		return
	case <-time.After(delay):
		c.JSON(http.StatusOK, gin.H{"waited": delay.String()})
	}
}

// Echo handles POST and PUT /echo by returning the validated body.
func (h *DemoHandler) Echo(c *gin.Context) {
	var req dto.EchoRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		middleware.AbortWithError(c, dto.ToHTTPError(err))
		return
	}

	c.JSON(http.StatusOK, req)
}

// Whoami handles GET /me and returns the authenticated subject.
func (h *DemoHandler) Whoami(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		middleware.AbortWithError(c, exception.Unauthorized(""))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subject": claims.Subject,
		"roles":   claims.Roles,
	})
}

// RegisterRoutes registers the demo routes on rg:
//   - GET /errors/:status - error with the given status
//   - GET /fail - unexpected error
//   - GET /panic - recovered panic
//   - GET /slow - request timeout
//   - POST, PUT /echo - 400/422 request validation
//   - GET /me - 401 without the subject header
//   - GET /admin - 403 without the admin role
//   - GET /reports - 403 listing the missing scopes
func (h *DemoHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/errors/:status", h.Status)
	rg.GET("/fail", h.Fail)
	rg.GET("/panic", h.Panic)
	rg.GET("/slow", h.Slow)
	rg.POST("/echo", h.Echo)
	rg.PUT("/echo", h.Echo)

	rg.GET("/me", middleware.RequireAuth(h.auth), h.Whoami)
	rg.GET("/admin", middleware.RequireAuth(h.auth), middleware.RequireRole(h.auth, "admin"), h.Whoami)
	rg.GET("/reports", middleware.RequireAuth(h.auth), middleware.RequireScopes(h.auth, "reports:read", "reports:export"), h.Whoami)
}
