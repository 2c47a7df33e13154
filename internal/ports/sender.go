package ports

import (
	"context"
	"net/http"
)

// Sender is the abstract "send request, get response or failure" capability
// the probe executor consumes. Implementations are expected to honor context
// cancellation and deadlines; a cancellation surfaces as an ordinary send
// error. The returned response has an open body that the caller must close.
//
// Do may return both a non-nil response and a non-nil error when the
// transport delivered a response it considers a failure, such as a retryable
// status after retries ran out. A non-nil response is the endpoint's final
// answer and takes precedence over the error.
type Sender interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}
