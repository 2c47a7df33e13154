package domain

// State is the health state reported by a single probe execution or by the
// aggregate of all registered probes.
type State string

const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

// severity orders states from best to worst for aggregation.
var severity = map[State]int{
	StateHealthy:   0,
	StateDegraded:  1,
	StateUnhealthy: 2,
}

// Worst returns the more severe of the two states. Unknown states are
// treated as unhealthy.
func (s State) Worst(other State) State {
	sv, ok := severity[s]
	if !ok {
		return StateUnhealthy
	}
	ov, ok := severity[other]
	if !ok {
		return StateUnhealthy
	}
	if ov > sv {
		return other
	}
	return s
}

// Annotation is a caller-declared diagnostic key/value pair attached to every
// verdict a probe produces (e.g. an escalation contact or a dashboard link).
// Annotations are kept as an ordered slice so that application order is
// deterministic when keys collide.
type Annotation struct {
	Key   string
	Value any
}

// Verdict is the outcome of one probe execution: a health state, a
// human-readable description, and a diagnostic data mapping. A Verdict is
// created fresh per execution and owned by the caller that receives it.
type Verdict struct {
	State       State          `json:"state"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// Healthy returns a healthy verdict with the given description.
func Healthy(description string) Verdict {
	return Verdict{State: StateHealthy, Description: description}
}

// Degraded returns a degraded verdict with the given description.
func Degraded(description string) Verdict {
	return Verdict{State: StateDegraded, Description: description}
}

// Unhealthy returns an unhealthy verdict with the given description.
func Unhealthy(description string) Verdict {
	return Verdict{State: StateUnhealthy, Description: description}
}

// WithAnnotations returns a copy of the verdict with the annotations merged
// into its data mapping. The original verdict's data is copied, never
// mutated. Annotations are applied last in declaration order, so on a key
// collision the annotation value wins over an existing data entry.
func (v Verdict) WithAnnotations(annotations []Annotation) Verdict {
	if len(annotations) == 0 {
		return v
	}

	data := make(map[string]any, len(v.Data)+len(annotations))
	for k, val := range v.Data {
		data[k] = val
	}
	for _, a := range annotations {
		data[a.Key] = a.Value
	}

	v.Data = data
	return v
}
