package probe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/ports"
)

// defaultHost is the host probes target; endpoint resolution yields only a
// local port.
const defaultHost = "localhost"

// Config describes one declarative probe registration. Every field except
// Path is optional; zero values select the documented defaults.
type Config struct {
	// Method is the HTTP method. Defaults to GET.
	Method string

	// Scheme must be a valid URI scheme when set. Defaults to "http".
	Scheme string

	// Path is the relative path of the probed endpoint.
	Path string

	// Header entries are attached to the request verbatim.
	Header http.Header

	// ExpectedStatus is the status code that maps to a healthy baseline.
	// Defaults to 200.
	ExpectedStatus int

	// Refine optionally post-processes the baseline verdict. See [Refine].
	Refine Refine

	// Annotations are merged into the data mapping of every verdict this
	// probe produces, after any refinement.
	Annotations []domain.Annotation
}

// Registrar constructs probes and hands them to the aggregating registry.
// It holds the three collaborators the core depends on: the check registry,
// the endpoint resolver, and the transport used to send probe requests.
type Registrar struct {
	registry ports.ProbeRegistry
	resolver ports.EndpointResolver
	sender   ports.Sender
}

// NewRegistrar creates a Registrar backed by the given collaborators.
func NewRegistrar(registry ports.ProbeRegistry, resolver ports.EndpointResolver, sender ports.Sender) *Registrar {
	return &Registrar{
		registry: registry,
		resolver: resolver,
		sender:   sender,
	}
}

// Register registers a declarative HTTP endpoint probe under checkName. The
// endpoint name is resolved now, the request is built now, and both are
// captured immutably; failures here (invalid scheme, unresolvable endpoint)
// abort this registration and leave other registrations untouched. No
// network I/O happens until the check first executes.
func (r *Registrar) Register(checkName, endpointName string, cfg Config) error {
	build, err := RequestSpec{
		Method: cfg.Method,
		Scheme: cfg.Scheme,
		Path:   cfg.Path,
		Header: cfg.Header,
	}.Builder()
	if err != nil {
		return fmt.Errorf("probe %q: %w", checkName, err)
	}

	return r.RegisterRequest(checkName, endpointName, build, cfg.ExpectedStatus, cfg.Refine, cfg.Annotations...)
}

// RegisterRequest is the low-level registration form for callers that need
// full control over request construction. The builder is invoked once, with
// the base address produced by endpoint resolution.
func (r *Registrar) RegisterRequest(
	checkName, endpointName string,
	build RequestBuilder,
	expectedStatus int,
	refine Refine,
	annotations ...domain.Annotation,
) error {
	port, err := r.resolver.Resolve(endpointName)
	if err != nil {
		return &domain.ResolutionError{Endpoint: endpointName, Err: err}
	}

	req, err := build(BaseAddress{Scheme: DefaultScheme, Host: defaultHost, Port: port})
	if err != nil {
		return fmt.Errorf("probe %q: building request: %w", checkName, err)
	}

	params := NewParams(req, expectedStatus, refine, annotations)
	sender := r.sender

	r.registry.Register(checkName, func(ctx context.Context) domain.Verdict {
		return Execute(ctx, params, sender)
	})
	return nil
}
