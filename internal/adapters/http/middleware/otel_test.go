package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/middleware"
)

func TestOpenTelemetry_SpanInContext(t *testing.T) {
	t.Parallel()

	var span trace.Span
	handler := middleware.OpenTelemetry()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span = trace.SpanFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	if span == nil {
		t.Fatal("no span in handler context")
	}
}

func TestOpenTelemetry_PassesThroughStatus(t *testing.T) {
	t.Parallel()

	handler := middleware.OpenTelemetry()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
