package httpclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestBackoff_ExponentialIncrease(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     10 * time.Second,
		multiplier:      2.0,
	}

	// Run multiple samples to account for jitter.
	const samples = 100
	base := float64(100 * time.Millisecond)
	for attempt := 1; attempt <= 3; attempt++ {
		minExpected := time.Duration(base * (1 - jitterFraction))
		maxExpected := time.Duration(base * (1 + jitterFraction))

		for range samples {
			delay := backoff(attempt, cfg)
			if delay < minExpected || delay > maxExpected {
				t.Errorf("attempt %d: delay %v not in [%v, %v]", attempt, delay, minExpected, maxExpected)
			}
		}
		base *= cfg.multiplier
	}
}

func TestBackoff_CappedAtMaxInterval(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		multiplier:      2.0,
	}

	// Attempt 10 would be 100ms * 2^9 = 51.2s without the cap.
	maxWithJitter := time.Duration(float64(cfg.maxInterval) * (1 + jitterFraction))

	const samples = 100
	for range samples {
		delay := backoff(10, cfg)
		if delay > maxWithJitter {
			t.Errorf("delay %v exceeds max interval with jitter %v", delay, maxWithJitter)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "net error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: true},
		{name: "generic error", err: errors.New("something failed"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		want       bool
	}{
		{name: "200 OK", statusCode: http.StatusOK, want: false},
		{name: "204 No Content", statusCode: http.StatusNoContent, want: false},
		{name: "404 Not Found", statusCode: http.StatusNotFound, want: false},
		{name: "429 Too Many Requests", statusCode: http.StatusTooManyRequests, want: true},
		{name: "500 Internal Server Error", statusCode: http.StatusInternalServerError, want: true},
		{name: "503 Service Unavailable", statusCode: http.StatusServiceUnavailable, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isRetryableStatus(tt.statusCode); got != tt.want {
				t.Errorf("isRetryableStatus(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}

func TestSecureRandFloat64_InRange(t *testing.T) {
	t.Parallel()

	const samples = 1000
	for range samples {
		v := secureRandFloat64()
		if v < 0 || v >= 1 {
			t.Errorf("secureRandFloat64() = %v, want [0, 1)", v)
		}
	}
}
