package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
	"github.com/jsamuelsen11/healthprobe/internal/ports"
)

// Diagnostic data keys the executor attaches to verdicts.
const (
	dataKeyError  = "error"
	dataKeyStatus = "status_code"
)

// Execute performs exactly one request/response cycle for the given
// parameters and reduces the outcome into a verdict. It is stateless and
// reentrant: the captured request is cloned per invocation, so concurrent
// executions against the same Params never interfere.
//
// A send failure (network error, connection refused, timeout, cancellation)
// is never returned to the caller; it produces an unhealthy verdict carrying
// the failure detail in its data mapping. Whenever the sender delivers a
// response the verdict comes from the reducer, regardless of any error
// reported alongside it.
func Execute(ctx context.Context, p Params, send ports.Sender) domain.Verdict {
	req := p.req.Clone(ctx)

	// The declarative form never sets a body. Builder-form callers that do
	// must also set GetBody, which Clone carries over, so replayed
	// executions get a fresh reader.
	if p.req.GetBody != nil {
		body, err := p.req.GetBody()
		if err != nil {
			return sendFailure(p, fmt.Errorf("rewinding request body: %w", err))
		}
		req.Body = body
	}

	resp, err := send.Do(ctx, req)
	if resp == nil {
		if err == nil {
			err = errors.New("no response received")
		}
		return sendFailure(p, err)
	}
	defer drainAndClose(resp)

	// A delivered response always goes through the reducer, even when the
	// sender also reports an error (a transport that exhausted retries on a
	// retryable status still hands back the endpoint's final answer). The
	// status comparison decides health, not the transport's retry policy.
	return reduce(resp, p)
}

// sendFailure converts a send error into the reported unhealthy verdict.
func sendFailure(p Params, err error) domain.Verdict {
	v := domain.Unhealthy(fmt.Sprintf("%s %s failed: %v", p.req.Method, p.req.URL, err))
	v.Data = map[string]any{dataKeyError: err.Error()}
	return v.WithAnnotations(p.annotations)
}

// drainAndClose discards any unread response body and closes it so the
// underlying connection can be reused.
func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
