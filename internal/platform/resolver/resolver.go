// Package resolver maps logical endpoint names to local ports using the
// endpoint table from configuration.
package resolver

import (
	"fmt"
	"sort"

	"github.com/jsamuelsen11/healthprobe/internal/ports"
)

// Static resolves endpoint names against a fixed name-to-port table. The
// table is copied at construction and never mutated, so a Static resolver is
// safe for concurrent use.
type Static struct {
	ports map[string]int
}

var _ ports.EndpointResolver = (*Static)(nil)

// NewStatic builds a resolver from the given endpoint table.
func NewStatic(endpoints map[string]int) *Static {
	table := make(map[string]int, len(endpoints))
	for name, port := range endpoints {
		table[name] = port
	}
	return &Static{ports: table}
}

// Resolve returns the port registered for the named endpoint. Unknown names
// produce an error listing the known endpoints to make config typos easy to
// spot.
func (s *Static) Resolve(name string) (int, error) {
	port, ok := s.ports[name]
	if !ok {
		return 0, fmt.Errorf("unknown endpoint %q (known: %v)", name, s.names())
	}
	return port, nil
}

func (s *Static) names() []string {
	names := make([]string, 0, len(s.ports))
	for name := range s.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
