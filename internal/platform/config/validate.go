package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Transport.validate(),
		c.Telemetry.validate(),
		c.validateEndpoints(),
		c.validateProbes(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TransportConfig) validate() error {
	var errs []error

	if t.Timeout <= 0 {
		errs = append(errs, errors.New("transport.timeout must be positive"))
	}
	if t.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("transport.retry.max_attempts must be >= 1, got %d", t.Retry.MaxAttempts))
	}
	if t.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("transport.retry.multiplier must be positive, got %f", t.Retry.Multiplier))
	}
	if t.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("transport.circuit_breaker.max_failures must be >= 1, got %d",
			t.CircuitBreaker.MaxFailures))
	}
	if t.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("transport.rate_limit.requests_per_second must not be negative, got %f",
			t.RateLimit.RequestsPerSecond))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (c *Config) validateEndpoints() error {
	var errs []error

	for name, port := range c.Endpoints {
		if name == "" {
			errs = append(errs, errors.New("endpoints must not contain an empty name"))
		}
		if port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("endpoints.%s must be between 1 and 65535, got %d", name, port))
		}
	}

	return errors.Join(errs...)
}

// validateProbes checks structural probe fields only. Scheme syntax and
// endpoint resolution are deliberately left to probe registration, which
// owns those error cases.
func (c *Config) validateProbes() error {
	var errs []error

	seen := make(map[string]bool, len(c.Probes))
	for i, p := range c.Probes {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("probes[%d].name must not be empty", i))
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("probes[%d].name %q is declared twice", i, p.Name))
		}
		seen[p.Name] = true

		if p.Endpoint == "" {
			errs = append(errs, fmt.Errorf("probes[%d].endpoint must not be empty", i))
		}
		if p.Path == "" {
			errs = append(errs, fmt.Errorf("probes[%d].path must not be empty", i))
		}
		if p.ExpectedStatus != 0 && (p.ExpectedStatus < 100 || p.ExpectedStatus > 599) {
			errs = append(errs, fmt.Errorf("probes[%d].expected_status must be a valid HTTP status, got %d",
				i, p.ExpectedStatus))
		}
	}

	return errors.Join(errs...)
}
