package probe

import (
	"fmt"
	"net/http"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
)

// reduce maps a response to the final verdict. The baseline is healthy iff
// the status code matches the expectation. When a refine function is
// present its return value replaces the baseline entirely; the reducer does
// not constrain or merge its output. Annotations are merged into the final
// verdict's data as the last step regardless of refinement, so on a key
// collision the annotation value wins.
func reduce(resp *http.Response, p Params) domain.Verdict {
	var baseline domain.Verdict
	if resp.StatusCode == p.expectedStatus {
		baseline = domain.Healthy(fmt.Sprintf("%s %s returned %d", p.req.Method, p.req.URL, resp.StatusCode))
	} else {
		baseline = domain.Unhealthy(fmt.Sprintf("%s %s returned status %d, expected %d",
			p.req.Method, p.req.URL, resp.StatusCode, p.expectedStatus))
	}
	baseline.Data = map[string]any{dataKeyStatus: resp.StatusCode}

	final := baseline
	if p.refine != nil {
		final = refineSafely(p.refine, resp, baseline)
	}

	return final.WithAnnotations(p.annotations)
}

// refineSafely invokes the caller-supplied refine function and converts a
// panic into an unhealthy verdict, keeping execution-time failures inside
// the verdict instead of aborting the aggregate health-check run.
func refineSafely(refine Refine, resp *http.Response, baseline domain.Verdict) (v domain.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = domain.Unhealthy(fmt.Sprintf("refine function panicked: %v", r))
			v.Data = map[string]any{dataKeyError: fmt.Sprint(r)}
		}
	}()

	return refine(resp, baseline)
}
