// Package health provides a thread-safe registry of named probe checks. The
// registry is the aggregation point of the health-reporting framework: probes
// register a check once at startup, and the readiness endpoint runs them all
// to compute one service-health verdict.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/platform/telemetry"
	"github.com/jsamuelsen11/healthprobe/internal/ports"
)

// Compile-time interface check.
var _ ports.ProbeRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.ProbeRegistry].
// Checks are registered at startup and executed on each readiness probe.
// When metrics are attached, each execution records its duration and verdict
// state.
type Registry struct {
	mu      sync.RWMutex
	checks  map[string]ports.CheckFunc
	metrics *telemetry.Metrics // nil disables metric recording
}

// New creates an empty check registry. Metrics may be nil.
func New(metrics *telemetry.Metrics) *Registry {
	return &Registry{
		checks:  make(map[string]ports.CheckFunc),
		metrics: metrics,
	}
}

// Register adds a check under the given name, replacing any previous check
// with the same name. Safe for concurrent use.
func (r *Registry) Register(name string, check ports.CheckFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[name] = check
}

// CheckAll executes every registered check and returns the verdicts keyed by
// check name. The check map is copied under a read lock so checks run
// without holding the lock; a check registered mid-run is picked up on the
// next CheckAll.
func (r *Registry) CheckAll(ctx context.Context) map[string]domain.Verdict {
	r.mu.RLock()
	checks := make(map[string]ports.CheckFunc, len(r.checks))
	for name, check := range r.checks {
		checks[name] = check
	}
	r.mu.RUnlock()

	results := make(map[string]domain.Verdict, len(checks))
	for name, check := range checks {
		results[name] = r.run(ctx, name, check)
	}
	return results
}

// run executes one check and records its metrics.
func (r *Registry) run(ctx context.Context, name string, check ports.CheckFunc) domain.Verdict {
	start := time.Now()
	v := check(ctx)

	if r.metrics != nil {
		r.metrics.RecordProbe(ctx, name, string(v.State), time.Since(start))
	}
	return v
}

// Overall reduces a result set to the worst state it contains. An empty
// result set is healthy: a service with no registered checks has nothing to
// fail.
func Overall(results map[string]domain.Verdict) domain.State {
	state := domain.StateHealthy
	for _, v := range results {
		state = state.Worst(v.State)
	}
	return state
}
