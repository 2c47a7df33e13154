// Package httpclient provides the instrumented transport that probe requests
// are sent through: circuit breaker, rate limiting, retry with exponential
// backoff, and OpenTelemetry tracing for outbound requests.
//
// The transport applies processing in this order:
//
//	Circuit Breaker → Rate Limiter → Header Injection → OTEL Span → Retry → HTTP
//
// Construction:
//
//	sender := httpclient.New(&cfg.Transport, metrics, logger)
//
// The transport satisfies ports.Sender, so probe registration wires it in
// directly. Its circuit breaker doubles as a health signal: Check reports the
// breaker state as a verdict without sending anything.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/platform/config"
	"github.com/jsamuelsen11/healthprobe/internal/platform/telemetry"
)

// breakerName identifies the shared transport breaker in logs and verdicts.
const breakerName = "probe-transport"

type requestIDKey struct{}

// WithRequestID returns a new context with the given request ID stored in it.
// Inbound middleware calls this so outbound probe requests carry the ID that
// triggered them.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// retryConfig holds the retry policy values extracted from config.RetryConfig
// using unexported types to avoid leaking the config package through the API.
type retryConfig struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// Transport is the instrumented HTTP transport probes send through. A single
// circuit breaker guards all outbound probe traffic: when local endpoints
// stop answering, the breaker opens and probe sends fail fast instead of
// piling up timeouts.
type Transport struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	limiter    *rate.Limiter // nil when rate limiting is disabled
	retryCfg   retryConfig
	metrics    *telemetry.Metrics
	logger     *slog.Logger
}

// New creates the probe transport configured with circuit breaker, retry with
// exponential backoff, and OpenTelemetry tracing. If metrics is nil, metric
// recording is skipped.
func New(cfg *config.TransportConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Transport {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Transport{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    cb,
		limiter:    limiter,
		retryCfg: retryConfig{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Do executes an HTTP request through the full pipeline:
// Circuit Breaker → Rate Limiter → Header Injection → OTEL Span → Retry → HTTP.
//
// When the request succeeds (non-retryable status), resp is non-nil with an
// open body that the caller must close. When all retries are exhausted for a
// retryable status, both resp (with open body) and err are non-nil; the caller
// should close resp.Body. When the circuit breaker rejects or a network error
// occurs, resp is nil.
func (t *Transport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	method := req.Method
	peer := req.URL.Host

	var resp *http.Response
	_, err := t.breaker.Execute(func() (struct{}, error) {
		if err := t.waitForRateLimit(ctx); err != nil {
			return struct{}{}, err
		}

		t.injectHeaders(ctx, req)

		spanCtx, span := t.startSpan(ctx, req)
		defer span.End()

		// Bind span context to the request so http.Client.Do uses it for
		// cancellation, deadlines, and trace propagation.
		req = req.WithContext(spanCtx)

		retryErr := t.doWithRetry(spanCtx, req, &resp)
		t.finishSpan(span, resp, retryErr)

		return struct{}{}, retryErr
	})

	t.recordMetrics(ctx, method, peer, start, resp, err)

	return resp, err
}

// Check reports the transport's availability based on the circuit breaker
// state. No network call is made, so it is safe to register alongside the
// real probes.
//
// State mapping:
//   - closed:    all recent sends succeeded; Healthy.
//   - half-open: the breaker is probing recovery; Degraded.
//   - open:      sends are being rejected; Unhealthy.
func (t *Transport) Check(_ context.Context) domain.Verdict {
	switch state := t.breaker.State(); state {
	case gobreaker.StateClosed:
		return domain.Healthy("circuit breaker closed")
	case gobreaker.StateHalfOpen:
		return domain.Degraded("circuit breaker half-open, probing recovery")
	case gobreaker.StateOpen:
		return domain.Unhealthy("circuit breaker open, probe sends rejected")
	default:
		return domain.Unhealthy(fmt.Sprintf("unknown circuit breaker state %v", state))
	}
}

// waitForRateLimit blocks until the rate limiter allows the request or the
// context is canceled. Returns nil immediately when rate limiting is disabled.
func (t *Transport) waitForRateLimit(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

// injectHeaders adds the X-Request-ID header to the outbound request if
// present in the context.
func (t *Transport) injectHeaders(ctx context.Context, req *http.Request) {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.Header.Set("X-Request-ID", id)
	}
}

// startSpan creates an OTEL client span for the outbound request and injects
// trace context (W3C Trace Context) into the request headers.
func (t *Transport) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("httpclient")

	spanName := fmt.Sprintf("HTTP %s %s", req.Method, req.URL.Host)
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", req.URL.Host),
		),
	)

	// Propagate trace context into outbound request headers.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

// finishSpan records the response outcome on the span.
func (t *Transport) finishSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics records send duration and count metrics. Metrics are recorded
// outside the circuit breaker so that circuit-open rejections are captured.
// Safe to call with nil metrics.
func (t *Transport) recordMetrics(
	ctx context.Context, method, peer string, start time.Time, resp *http.Response, err error,
) {
	if t.metrics == nil {
		return
	}

	duration := time.Since(start).Seconds()

	statusCode := 0
	result := "error"
	if resp != nil {
		statusCode = resp.StatusCode
		if statusCode < http.StatusBadRequest {
			result = "success"
		}
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		result = "circuit_open"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(statusCode),
		telemetry.AttrPeerService.String(peer),
		telemetry.AttrResult.String(result),
	)

	t.metrics.SendDuration.Record(ctx, duration, attrs)
	t.metrics.SendTotal.Add(ctx, 1, attrs)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
