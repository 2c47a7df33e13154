package probe

import (
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jsamuelsen11/healthprobe/internal/domain"
)

// DefaultScheme is used when a RequestSpec does not name a scheme.
const DefaultScheme = "http"

// BaseAddress is the concrete network address a probe targets, produced by
// endpoint resolution. The path component always comes from the request
// spec, never from the address.
type BaseAddress struct {
	Scheme string
	Host   string
	Port   int
}

// URL returns the address as a URL with an empty path.
func (a BaseAddress) URL() *url.URL {
	return &url.URL{
		Scheme: a.Scheme,
		Host:   net.JoinHostPort(a.Host, strconv.Itoa(a.Port)),
	}
}

// RequestBuilder turns a resolved base address into a fully formed request.
// Builders run once, at registration time; the built request is captured
// immutably and reused for every execution of the probe.
type RequestBuilder func(base BaseAddress) (*http.Request, error)

// RequestSpec declaratively describes how to build a probe request. The zero
// value of every field selects a documented default; only Path is normally
// set by callers.
type RequestSpec struct {
	// Method is the HTTP method. Defaults to GET.
	Method string

	// Scheme overrides the base address scheme. Defaults to "http". A
	// non-empty value must be a syntactically valid URI scheme per RFC 3986
	// or Builder fails with domain.ErrInvalidConfiguration.
	Scheme string

	// Path is the relative path applied as the path component of the base
	// address, verbatim.
	Path string

	// Header entries are attached to the request without value validation;
	// malformed values are the transport's problem at send time.
	Header http.Header
}

// Builder validates the spec and returns a builder that applies it to a base
// address. Validation happens here, once, so a bad scheme fails the
// registration synchronously rather than poisoning every execution. No
// network I/O occurs in either the validation or the returned builder.
func (s RequestSpec) Builder() (RequestBuilder, error) {
	scheme := s.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	if err := validateScheme(scheme); err != nil {
		return nil, err
	}

	method := s.Method
	if method == "" {
		method = http.MethodGet
	}

	return func(base BaseAddress) (*http.Request, error) {
		base.Scheme = scheme

		req, err := http.NewRequest(method, base.URL().String(), http.NoBody)
		if err != nil {
			return nil, err
		}
		// Assigned directly rather than joined through URL parsing so the
		// configured path reaches the request verbatim.
		req.URL.Path = s.Path
		for name, values := range s.Header {
			for _, v := range values {
				req.Header.Add(name, v)
			}
		}
		return req, nil
	}, nil
}

// validateScheme checks RFC 3986 scheme syntax:
// ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func validateScheme(scheme string) error {
	invalid := func(reason string) error {
		return &domain.ConfigurationError{Field: "scheme", Value: scheme, Reason: reason}
	}

	if scheme == "" {
		return invalid("must not be empty")
	}
	if !isAlpha(scheme[0]) {
		return invalid("must start with a letter")
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if isAlpha(c) || isDigit(c) || c == '+' || c == '-' || c == '.' {
			continue
		}
		return invalid("contains invalid character " + strconv.QuoteRune(rune(c)))
	}
	return nil
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
