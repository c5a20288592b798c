// Package ports defines the interfaces adapters implement for the service core.
package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// DefaultCheckTimeout bounds a single readiness check.
const DefaultCheckTimeout = 2 * time.Second

// HealthChecker is a component whose failure makes the service unready,
// such as the exception formatters.
type HealthChecker interface {
	// Name identifies the checker in readiness responses. It must be unique.
	Name() string

	// Check returns nil when the component is usable. It must honor ctx.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checkers.
type HealthRegistry interface {
	// Register adds checker, failing with ErrDuplicateChecker on a name clash.
	Register(checker HealthChecker) error

	// CheckAll runs every registered check concurrently.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the state of a check or of the whole service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the outcome of CheckAll. Status is unhealthy as soon as
// one check failed.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one check. Message holds the check error.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is the HealthRegistry used by the service.
// It is safe for concurrent use.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checkers     []HealthChecker
	checkTimeout time.Duration
}

// RegistryOption configures a DefaultHealthRegistry.
type RegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout bounds each individual check. Zero leaves checks bounded
// only by the context passed to CheckAll.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) {
		r.checkTimeout = d
	}
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry(opts ...RegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{checkers: []HealthChecker{}}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker to the registry.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// Names returns the registered checker names in registration order.
func (r *DefaultHealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.checkers))
	for i, c := range r.checkers {
		names[i] = c.Name()
	}

	return names
}

// CheckAll runs all registered checks concurrently. A failing check does
// not cancel the others.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			results[i] = r.run(ctx, checker)
			return nil
		})
	}

	_ = g.Wait()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, checker := range checkers {
		result.Checks[checker.Name()] = results[i]
		if results[i].Status == HealthStatusUnhealthy {
			result.Status = HealthStatusUnhealthy
		}
	}

	return result
}

func (r *DefaultHealthRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}

	start := time.Now()
	err := checker.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
