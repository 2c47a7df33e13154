package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/healthprobe/internal/platform/logging"
)

func TestLogging_LogsStartAndCompletion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	out := buf.String()
	if !strings.Contains(out, "request started") {
		t.Error("missing 'request started' log entry")
	}
	if !strings.Contains(out, "request completed") {
		t.Error("missing 'request completed' log entry")
	}
	if !strings.Contains(out, "/health/ready") {
		t.Error("missing request path in log output")
	}
	if !strings.Contains(out, "503") {
		t.Error("missing response status in completion entry")
	}
}

func TestLogging_StoresLoggerInContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	var ctxLogger *slog.Logger
	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if ctxLogger == slog.Default() {
		t.Error("context logger is slog.Default(), want the enriched child logger")
	}
}

func TestLogging_DebugHeadersRedacted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("debug", "json", &buf)

	handler := middleware.Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Authorization", "Bearer topsecret")
	req.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	if strings.Contains(out, "topsecret") {
		t.Error("credential value leaked into debug header log")
	}
	if !strings.Contains(out, "application/json") {
		t.Error("non-sensitive header missing from debug log")
	}
}
