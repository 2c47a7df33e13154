// Package handlers provides the inbound HTTP handlers for the health
// endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/platform/health"
	"github.com/jsamuelsen11/healthprobe/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusDegraded = "degraded"
	statusNotReady = "not_ready"
)

// HealthHandler handles liveness and readiness HTTP endpoints.
type HealthHandler struct {
	reporter ports.HealthReporter
}

// NewHealthHandler creates a new HealthHandler backed by the given reporter.
func NewHealthHandler(reporter ports.HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

// Liveness handles GET /health/live. Always returns 200 OK: the process is
// up, regardless of what the probes say about its dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. It runs every registered probe and
// reduces the verdicts to one overall state:
//
//   - healthy:   200 with status "ready"
//   - degraded:  200 with status "degraded" (serving, but impaired)
//   - unhealthy: 503 with status "not_ready"
//
// The response body carries each check's full verdict so operators can see
// which probe dragged the state down and why.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.reporter.CheckAll(r.Context())

	status := statusReady
	code := http.StatusOK
	switch health.Overall(results) {
	case domain.StateDegraded:
		status = statusDegraded
	case domain.StateUnhealthy:
		status = statusNotReady
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": results,
	})
}
