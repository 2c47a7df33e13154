// Package ports defines the interfaces between the probe core and its
// collaborators. The probe core depends only on these interfaces: the
// registry that aggregates named checks, the resolver that maps logical
// endpoint names to ports, and the transport that sends HTTP requests.
package ports
