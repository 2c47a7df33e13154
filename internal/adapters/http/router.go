// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/middleware"
)

// NewRouter creates an HTTP handler with the health routes registered.
// Middleware wraps the whole router in the order given, first outermost.
func NewRouter(
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	return middleware.Chain(middlewares...)(r)
}
