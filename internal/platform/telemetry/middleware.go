package telemetry

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

const (
	instrumentationName = "github.com/jsamuelsen/gin-exception/telemetry"

	// HeaderTraceID exposes the trace id of the request span.
	HeaderTraceID = "X-Trace-ID"

	// routeUnmatched labels requests answered by the NoRoute handler.
	routeUnmatched = "unmatched"
)

// Metrics holds HTTP server metrics.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates HTTP server metrics on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware returns the tracing and metrics handlers: otelgin starts the
// request span, the second handler records request metrics, sets the
// X-Trace-ID header and annotates the span with the rendered error.
// Install it ahead of the exception manager so c.Errors is final.
func Middleware(serviceName string, opts ...otelgin.Option) gin.HandlersChain {
	// Errors are reported to otel; the middleware still traces without metrics.
	metrics, err := NewMetrics()
	if err != nil {
		otel.Handle(err)
		metrics = nil
	}

	return gin.HandlersChain{
		otelgin.Middleware(serviceName, opts...),
		requestMetrics(metrics),
	}
}

func requestMetrics(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		route := routeLabel(c)
		if metrics != nil {
			attrs := metric.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route),
			)

			metrics.activeRequests.Add(ctx, 1, attrs)
			defer metrics.activeRequests.Add(ctx, -1, attrs)
		}

		// Headers must be set before the response is written
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().HasTraceID() {
			c.Header(HeaderTraceID, span.SpanContext().TraceID().String())
		}

		c.Next()

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", c.Writer.Status()),
		}

		if httpErr := lastHTTPError(c); httpErr != nil {
			attrs = append(attrs, attribute.String("error.type", httpErr.Code()))

			span.SetAttributes(
				attribute.String("exception.id", httpErr.ID()),
				attribute.String("exception.code", httpErr.Code()),
				attribute.Bool("exception.unexpected", httpErr.Unexpected()),
			)
		}

		if metrics != nil {
			metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
			metrics.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}
}

// TracingMiddleware returns just the otelgin tracing middleware.
func TracingMiddleware(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, opts...)
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return routeUnmatched
}

func lastHTTPError(c *gin.Context) *exception.HTTPError {
	last := c.Errors.Last()
	if last == nil {
		return nil
	}

	var httpErr *exception.HTTPError
	if errors.As(last.Err, &httpErr) {
		return httpErr
	}

	return nil
}
