package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTracedRouter(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	router := gin.New()
	router.Use(Middleware("test-service", otelgin.WithTracerProvider(tp))...)

	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/conflict", func(c *gin.Context) {
		c.Status(http.StatusConflict)
		_ = c.Error(exception.Conflict("taken", exception.WithID("err-9")))
	})

	return router, sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	return attrs
}

func TestMiddleware(t *testing.T) {
	t.Run("sets trace header", func(t *testing.T) {
		router, sr := newTracedRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		spans := sr.Ended()
		require.Len(t, spans, 1)
		assert.Equal(t, spans[0].SpanContext().TraceID().String(), w.Header().Get(HeaderTraceID))

		_, ok := spanAttrs(spans[0])["exception.id"]
		assert.False(t, ok)
	})

	t.Run("annotates span with the http error", func(t *testing.T) {
		router, sr := newTracedRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

		assert.Equal(t, http.StatusConflict, w.Code)

		spans := sr.Ended()
		require.Len(t, spans, 1)

		attrs := spanAttrs(spans[0])
		assert.Equal(t, "err-9", attrs["exception.id"].AsString())
		assert.Equal(t, "CONFLICT", attrs["exception.code"].AsString())
		assert.False(t, attrs["exception.unexpected"].AsBool())
	})
}

func TestRouteLabel(t *testing.T) {
	router := gin.New()

	var matched, unmatched string
	router.GET("/users/:id", func(c *gin.Context) { matched = routeLabel(c) })
	router.NoRoute(func(c *gin.Context) { unmatched = routeLabel(c) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, "/users/:id", matched)
	assert.Equal(t, routeUnmatched, unmatched)
}
