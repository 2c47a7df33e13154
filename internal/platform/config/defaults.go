package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML,
// and env vars. There are no default endpoints or probes; both come entirely
// from configuration.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"transport.timeout":                         "10s",
		"transport.retry.max_attempts":              defaultRetryMaxAttempts,
		"transport.retry.initial_interval":          "100ms",
		"transport.retry.max_interval":              "5s",
		"transport.retry.multiplier":                defaultRetryMultiplier,
		"transport.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"transport.circuit_breaker.timeout":         "30s",
		"transport.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"transport.rate_limit.requests_per_second":  0.0,
		"transport.rate_limit.burst_size":           1,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
