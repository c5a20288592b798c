package exception

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Middleware renders the last error attached to the context with c.Error
// once the rest of the chain has run. Requests whose response was already
// written are left alone.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		m.HandleError(c, c.Errors.Last().Err).Render(c)
	}
}

// Recovery turns panics raised by later handlers into error responses.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func (m *Manager) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}

			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}

			m.HandleError(c, err).Render(c)
		}()

		c.Next()
	}
}

// NotFound is meant for gin's NoRoute hook.
func (m *Manager) NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HandleNotFound(c).Render(c)
	}
}

// NotAllowed is meant for gin's NoMethod hook. The allowed methods are read
// from the Allow header gin sets before calling it.
func (m *Manager) NotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := parseAllow(c.Writer.Header().Get("Allow"))
		m.HandleNotAllowed(c, allowed).Render(c)
	}
}

// Install wires the manager into engine: recovery and error middleware,
// plus the not-found and method-not-allowed hooks. Call it before
// registering routes so the middleware applies to them.
func (m *Manager) Install(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.Use(m.Recovery(), m.Middleware())
	engine.NoRoute(m.NotFound())
	engine.NoMethod(m.NotAllowed())
}

func parseAllow(header string) []string {
	if header == "" {
		return nil
	}

	var methods []string
	for _, method := range strings.Split(header, ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, method)
		}
	}

	return methods
}
