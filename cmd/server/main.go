// Package main is the entry point for the health-probe service. It wires all
// dependencies using samber/do v2, registers the configured probes, starts
// the HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/healthprobe/internal/adapters/http"
	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/healthprobe/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/platform/config"
	"github.com/jsamuelsen11/healthprobe/internal/platform/health"
	"github.com/jsamuelsen11/healthprobe/internal/platform/httpclient"
	"github.com/jsamuelsen11/healthprobe/internal/platform/logging"
	"github.com/jsamuelsen11/healthprobe/internal/platform/resolver"
	"github.com/jsamuelsen11/healthprobe/internal/platform/telemetry"
	"github.com/jsamuelsen11/healthprobe/internal/ports"
	"github.com/jsamuelsen11/healthprobe/internal/probe"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second

	// transportCheckName is the registry entry for the breaker-state check.
	transportCheckName = "transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register the configured probes plus the transport breaker check.
	// A misconfigured probe is a startup failure, not something to discover
	// on the first readiness request.
	registry := do.MustInvoke[*health.Registry](injector)
	transport := do.MustInvoke[*httpclient.Transport](injector)

	registrar := probe.NewRegistrar(registry, do.MustInvoke[ports.EndpointResolver](injector), transport)
	if err := registerProbes(registrar, cfg.Probes, logger); err != nil {
		return err
	}
	registry.Register(transportCheckName, transport.Check)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// registerProbes turns each declarative probe config into a registered check.
// Registration is fail-fast: the first invalid probe aborts startup.
func registerProbes(registrar *probe.Registrar, probes []config.ProbeConfig, logger *slog.Logger) error {
	for _, p := range probes {
		annotations := make([]domain.Annotation, 0, len(p.Annotations))
		for _, a := range p.Annotations {
			annotations = append(annotations, domain.Annotation{Key: a.Key, Value: a.Value})
		}

		err := registrar.Register(p.Name, p.Endpoint, probe.Config{
			Method:         p.Method,
			Scheme:         p.Scheme,
			Path:           p.Path,
			Header:         nethttp.Header(p.Headers),
			ExpectedStatus: p.ExpectedStatus,
			Annotations:    annotations,
		})
		if err != nil {
			return fmt.Errorf("registering probes: %w", err)
		}

		logger.Info("probe registered",
			slog.String("check", p.Name),
			slog.String("endpoint", p.Endpoint),
			slog.String("path", p.Path),
		)
	}
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Transport, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Transport, metrics, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.EndpointResolver, error) {
		return resolver.NewStatic(cfg.Endpoints), nil
	})

	do.Provide(injector, func(i do.Injector) (*health.Registry, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return health.New(metrics), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[*health.Registry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		healthH := do.MustInvoke[*handlers.HealthHandler](i)

		return adapthttp.NewRouter(healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.OpenTelemetry(),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
