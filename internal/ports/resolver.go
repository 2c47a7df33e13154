package ports

// EndpointResolver maps a logical endpoint name to the local port the
// endpoint listens on. Resolution happens once, at probe registration time;
// the resolved address is baked into the probe and never re-resolved.
type EndpointResolver interface {
	// Resolve returns the port for the named endpoint, or an error when the
	// name is unknown or the resolution backend is unavailable. Errors here
	// are fatal to the registration being constructed.
	Resolve(name string) (int, error)
}
