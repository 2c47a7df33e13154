// Package probe implements HTTP endpoint health probes: resolving a logical
// endpoint name to a concrete address, constructing a request from
// declarative parameters, executing one request/response cycle per check
// run, and reducing the outcome into a health verdict.
//
// Probes are registered once, at startup, through a [Registrar]:
//
//	reg := probe.NewRegistrar(registry, resolver, sender)
//	err := reg.Register("todo-api", "todo-api", probe.Config{
//	    Path:           "/health/ready",
//	    ExpectedStatus: http.StatusOK,
//	    Annotations:    []domain.Annotation{{Key: "owner", Value: "platform-team"}},
//	})
//
// Registration is fail-fast: an invalid scheme or an unresolvable endpoint
// aborts the registration synchronously. Execution never fails: network
// errors, timeouts, and cancellations are absorbed into an unhealthy verdict
// so one failing probe cannot abort an aggregate health-check run.
//
// All probe state is captured immutably at registration time, so a
// registered check is safe to run from any number of concurrent callers.
package probe
