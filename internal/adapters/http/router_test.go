package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	adapter "github.com/jsamuelsen11/healthprobe/internal/adapters/http"
	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/healthprobe/internal/domain"
)

type staticReporter map[string]domain.Verdict

func (s staticReporter) CheckAll(_ context.Context) map[string]domain.Verdict {
	return s
}

func newTestRouter(results map[string]domain.Verdict) http.Handler {
	return adapter.NewRouter(
		handlers.NewHealthHandler(staticReporter(results)),
		middleware.RequestID(),
	)
}

func TestRouter_HealthLive(t *testing.T) {
	t.Parallel()

	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRouter_HealthReady(t *testing.T) {
	t.Parallel()

	router := newTestRouter(map[string]domain.Verdict{
		"todo-api-ready": domain.Unhealthy("GET /health/ready failed: connection refused"),
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	t.Parallel()

	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing, middleware not applied")
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/anything", http.NoBody))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
