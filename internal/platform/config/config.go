// Package config provides configuration loading and validation for the
// service. Configuration is loaded from YAML files with environment variable
// overrides using a layered system:
// defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Transport TransportConfig `koanf:"transport"`
	Telemetry TelemetryConfig `koanf:"telemetry"`

	// Endpoints maps logical endpoint names to the local ports they listen
	// on. This table backs the endpoint resolver; probes reference entries
	// by name.
	Endpoints map[string]int `koanf:"endpoints"`

	// Probes are the declarative probe registrations performed at startup.
	Probes []ProbeConfig `koanf:"probes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TransportConfig holds settings for the outbound probe transport.
type TransportConfig struct {
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds outbound rate limit settings. A zero
// RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// ProbeConfig declares one HTTP endpoint probe. Name is the check name the
// verdict is reported under; Endpoint is the logical endpoint name resolved
// against the Endpoints table.
type ProbeConfig struct {
	Name           string              `koanf:"name"`
	Endpoint       string              `koanf:"endpoint"`
	Path           string              `koanf:"path"`
	Method         string              `koanf:"method"`
	Scheme         string              `koanf:"scheme"`
	ExpectedStatus int                 `koanf:"expected_status"`
	Headers        map[string][]string `koanf:"headers"`
	Annotations    []AnnotationConfig  `koanf:"annotations"`
}

// AnnotationConfig is one diagnostic key/value pair attached to every verdict
// a probe produces. Declared as a list so that application order is stable.
type AnnotationConfig struct {
	Key   string `koanf:"key"`
	Value string `koanf:"value"`
}
