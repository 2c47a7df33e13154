package http_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	adapter "github.com/jsamuelsen11/healthprobe/internal/adapters/http"
	"github.com/jsamuelsen11/healthprobe/internal/platform/config"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0, // OS-assigned port
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}
}

func TestServer_Addr(t *testing.T) {
	t.Parallel()

	cfg := testServerConfig()
	cfg.Port = 8080
	srv := adapter.NewServer(cfg, http.NotFoundHandler(), slog.New(slog.DiscardHandler))

	if got := srv.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:8080")
	}
}

func TestServer_StartAndGracefulShutdown(t *testing.T) {
	t.Parallel()

	srv := adapter.NewServer(testServerConfig(), http.NotFoundHandler(), slog.New(slog.DiscardHandler))

	startErr := make(chan error, 1)
	go func() {
		startErr <- srv.Start()
	}()

	// Give the listener a moment to come up before shutting down.
	time.Sleep(50 * time.Millisecond)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	select {
	case err := <-startErr:
		if err != nil {
			t.Errorf("Start() error = %v, want nil on graceful shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Shutdown")
	}
}

func TestServer_NilLoggerDefaults(t *testing.T) {
	t.Parallel()

	// Must not panic when constructed without a logger.
	srv := adapter.NewServer(testServerConfig(), http.NotFoundHandler(), nil)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
