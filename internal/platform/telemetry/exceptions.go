package telemetry

import (
	"context"
	"mime"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/gin-exception/pkg/exception"
)

// ExceptionMetrics counts rendered error responses. It is an exception.Observer
// and records to both Prometheus and the global OpenTelemetry meter.
type ExceptionMetrics struct {
	total   *prometheus.CounterVec
	counter metric.Int64Counter
}

// NewExceptionMetrics registers the exception counters with reg.
func NewExceptionMetrics(reg prometheus.Registerer) (*ExceptionMetrics, error) {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_exceptions_total",
		Help: "Error responses rendered by the exception manager.",
	}, []string{"status", "response_status", "content_type", "severity"})

	if err := reg.Register(total); err != nil {
		return nil, err
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"http.server.exceptions",
		metric.WithDescription("Error responses rendered by the exception manager"),
	)
	if err != nil {
		return nil, err
	}

	return &ExceptionMetrics{total: total, counter: counter}, nil
}

// ObserveException implements exception.Observer.
func (m *ExceptionMetrics) ObserveException(ctx context.Context, err *exception.HTTPError, resp *exception.Response) {
	status := strconv.Itoa(err.StatusCode())
	responseStatus := strconv.Itoa(resp.StatusCode)
	contentType := mediaType(resp.ContentType())
	severity := severityLabel(err)

	m.total.WithLabelValues(status, responseStatus, contentType, severity).Inc()
	m.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("http.status_code", err.StatusCode()),
		attribute.Int("http.response.status_code", resp.StatusCode),
		attribute.String("http.response.content_type", contentType),
		attribute.String("exception.severity", severity),
	))
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}

	return mt
}

func severityLabel(err *exception.HTTPError) string {
	if exception.Severity(err) == exception.LevelAlert {
		return "alert"
	}

	return "error"
}
