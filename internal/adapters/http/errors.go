package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/gin-exception/internal/adapters/http/middleware"
	"github.com/jsamuelsen/gin-exception/internal/platform/config"
	"github.com/jsamuelsen/gin-exception/internal/platform/logging"
	"github.com/jsamuelsen/gin-exception/pkg/exception"
	"github.com/jsamuelsen/gin-exception/pkg/exception/formatter"
)

// ErrUnknownFormatter is returned for a formatter name the service does not know.
var ErrUnknownFormatter = errors.New("unknown formatter")

// Exceptions is the configured exception manager together with the handlers
// it dispatches to, kept for readiness checks.
type Exceptions struct {
	Manager  *exception.Manager
	handlers map[string]*exception.ExceptionHandler
}

// NewExceptions builds the exception manager described by cfg.
// The default handler uses cfg.Formatters; every entry of cfg.StatusFormatters
// adds a status-specific handler. Error ids are the request ids set by
// middleware.RequestID. Errors are logged with the request-scoped logger;
// logger only receives negotiation diagnostics.
func NewExceptions(cfg *config.ExceptionConfig, logger *slog.Logger, opts ...exception.ManagerOption) (*Exceptions, error) {
	handlers := make(map[string]*exception.ExceptionHandler, len(cfg.StatusFormatters)+1)

	defaultHandler, err := newExceptionHandler(cfg, cfg.Formatters, logger)
	if err != nil {
		return nil, fmt.Errorf("default exception handler: %w", err)
	}

	handlers["default"] = defaultHandler

	managerOpts := append([]exception.ManagerOption{
		exception.WithContextLogger(logging.FromContext),
		exception.WithRequestIDFunc(middleware.GetRequestID),
	}, opts...)
	manager := exception.NewManager(defaultHandler, managerOpts...)

	for key, names := range cfg.StatusFormatters {
		status, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("exception handler for status %q: %w", key, err)
		}

		h, err := newExceptionHandler(cfg, names, logger)
		if err != nil {
			return nil, fmt.Errorf("exception handler for status %d: %w", status, err)
		}

		manager.AddHandler(status, h)
		handlers[key] = h
	}

	return &Exceptions{Manager: manager, handlers: handlers}, nil
}

func newExceptionHandler(cfg *config.ExceptionConfig, names []string, logger *slog.Logger) (*exception.ExceptionHandler, error) {
	h := exception.NewHandler(exception.WithHandlerLogger(logger))

	for _, name := range names {
		f, err := newFormatter(cfg, name)
		if err != nil {
			return nil, err
		}

		if err := h.AddFormatter(f); err != nil {
			return nil, err
		}
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

func newFormatter(cfg *config.ExceptionConfig, name string) (exception.Formatter, error) {
	opts := []formatter.Option{
		formatter.WithTrace(cfg.Trace),
		formatter.WithTraceArgs(cfg.TraceArgs),
		formatter.WithArgsLimit(cfg.ArgsLimit),
	}

	switch name {
	case config.FormatterText:
		return formatter.NewText(opts...), nil
	case config.FormatterJSON:
		return formatter.NewJSON(opts...), nil
	case config.FormatterXML:
		return formatter.NewXML(opts...), nil
	case config.FormatterHTML:
		return formatter.NewHTML(opts...), nil
	case config.FormatterYAML:
		return formatter.NewYAML(opts...), nil
	case config.FormatterProblem:
		return formatter.NewProblem(cfg.ProblemBaseURL, opts...), nil
	case config.FormatterJSONAPI:
		return formatter.NewJSONAPI(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormatter, name)
	}
}

// ContentTypes returns the negotiable media types of every handler, keyed
// by status code or "default".
func (e *Exceptions) ContentTypes() map[string][]string {
	types := make(map[string][]string, len(e.handlers))
	for key, h := range e.handlers {
		types[key] = h.ContentTypes()
	}

	return types
}

// Name implements ports.HealthChecker.
func (e *Exceptions) Name() string {
	return "exceptions"
}

// Check implements ports.HealthChecker. It renders a probe error with every
// registered formatter so a broken formatter surfaces before traffic does.
// Handlers are probed concurrently; the first failure in key order is reported.
func (e *Exceptions) Check(ctx context.Context) error {
	keys := make([]string, 0, len(e.handlers))
	for key := range e.handlers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	probe := exception.InternalServerError("readiness probe", exception.WithID("probe"))
	errs := make([]error, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			errs[i] = probeHandler(ctx, key, e.handlers[key], probe)
			return errs[i]
		})
	}

	if err := g.Wait(); err != nil {
		for _, err := range errs {
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}

		return err
	}

	return nil
}

func probeHandler(ctx context.Context, key string, h *exception.ExceptionHandler, probe *exception.HTTPError) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := h.Validate(); err != nil {
		return fmt.Errorf("handler %s: %w", key, err)
	}

	for _, ct := range h.ContentTypes() {
		f, _ := h.Formatter(ct)
		if _, err := f.Format(probe, nil); err != nil {
			return fmt.Errorf("handler %s: formatting %s: %w", key, ct, err)
		}
	}

	return nil
}
