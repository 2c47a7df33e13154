package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/middleware"
)

var uuidV4Pattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	t.Parallel()

	var gotID string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = middleware.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if !uuidV4Pattern.MatchString(gotID) {
		t.Errorf("generated request ID = %q, want UUID v4", gotID)
	}
	if rec.Header().Get("X-Request-ID") != gotID {
		t.Errorf("response header = %q, want %q", rec.Header().Get("X-Request-ID"), gotID)
	}
}

func TestRequestID_ReusesIncoming(t *testing.T) {
	t.Parallel()

	var gotID string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = middleware.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("X-Request-ID", "req-from-caller")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "req-from-caller" {
		t.Errorf("request ID = %q, want %q", gotID, "req-from-caller")
	}
	if rec.Header().Get("X-Request-ID") != "req-from-caller" {
		t.Errorf("response header = %q, want %q", rec.Header().Get("X-Request-ID"), "req-from-caller")
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if got := middleware.RequestIDFromContext(req.Context()); got != "" {
		t.Errorf("RequestIDFromContext on bare context = %q, want empty", got)
	}
}
