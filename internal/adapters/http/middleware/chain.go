package middleware

import "net/http"

// Chain composes the health-route middleware stack into a single wrapper
// applied to the router. The first argument becomes the outermost middleware
// (executed first on request, last on response), so Recovery stays outermost
// and catches panics from everything inside it:
//
//	Chain(Recovery(l), RequestID, OpenTelemetry, Logging(l), Timeout(d))(handler)
//
// is equivalent to:
//
//	Recovery(l)(RequestID(OpenTelemetry(Logging(l)(Timeout(d)(handler)))))
//
// RequestID must precede Logging so request log lines carry the ID, and it
// must precede the handler so probe fan-out can propagate the ID to outbound
// requests.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	wrap := func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
	return wrap
}
