package ports

import (
	"context"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
)

// CheckFunc executes one health check and returns its verdict. A CheckFunc
// never returns an error: execution-time failures are absorbed into an
// unhealthy verdict so one failing check cannot abort an aggregate run.
// Implementations must be safe for concurrent invocation.
type CheckFunc func(ctx context.Context) domain.Verdict

// ProbeRegistry aggregates named health checks. The probe core registers
// checks here at construction time; the aggregating framework decides when
// and how often to run them.
type ProbeRegistry interface {
	// Register adds a check under the given name. Registering the same name
	// again replaces the previous check.
	Register(name string, check CheckFunc)
}

// HealthReporter runs the registered checks and reports their verdicts.
// Inbound adapters consume this side of the registry.
type HealthReporter interface {
	CheckAll(ctx context.Context) map[string]domain.Verdict
}
