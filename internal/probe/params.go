package probe

import (
	"net/http"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
)

// DefaultExpectedStatus is the status code a probe expects when the
// registration does not name one.
const DefaultExpectedStatus = http.StatusOK

// Refine is a caller-supplied function with full authority over the final
// verdict. It receives the raw response and the baseline verdict computed
// from the status code; its return value replaces the baseline entirely.
// Probe annotations are merged into the returned verdict afterwards.
//
// Refine functions run concurrently when the same probe executes from
// multiple callers, so they must be safe for concurrent invocation. The
// response body is open when Refine runs and is closed by the executor
// afterwards; Refine must not retain it.
type Refine func(resp *http.Response, baseline domain.Verdict) domain.Verdict

// Params is the immutable bundle a probe executes against: the prebuilt
// request, the expected status, the optional refine function, and the
// annotations attached to every verdict. Params are constructed once at
// registration time and shared, read-only, across all concurrent executions
// of the probe.
type Params struct {
	req            *http.Request
	expectedStatus int
	refine         Refine
	annotations    []domain.Annotation
}

// NewParams captures the probe parameters. An expectedStatus of zero selects
// DefaultExpectedStatus. The annotations slice is copied so later mutation
// by the caller cannot leak into registered probes.
func NewParams(req *http.Request, expectedStatus int, refine Refine, annotations []domain.Annotation) Params {
	if expectedStatus == 0 {
		expectedStatus = DefaultExpectedStatus
	}

	var ann []domain.Annotation
	if len(annotations) > 0 {
		ann = make([]domain.Annotation, len(annotations))
		copy(ann, annotations)
	}

	return Params{
		req:            req,
		expectedStatus: expectedStatus,
		refine:         refine,
		annotations:    ann,
	}
}

// Request returns the prebuilt request. Callers must not mutate it; the
// executor clones it per invocation.
func (p Params) Request() *http.Request {
	return p.req
}

// ExpectedStatus returns the status code that maps to a healthy baseline.
func (p Params) ExpectedStatus() int {
	return p.expectedStatus
}
