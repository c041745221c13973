package pipeline

import (
	"github.com/rotisserie/eris"
)

// Registry maps stage names to their implementations.
type Registry struct {
	stages map[string]Stage
	order  []string // insertion order for deterministic iteration
}

// NewRegistry creates a registry holding the given stages.
func NewRegistry(stages ...Stage) *Registry {
	r := &Registry{stages: make(map[string]Stage, len(stages))}
	for _, s := range stages {
		r.Register(s)
	}
	return r
}

// Register adds a stage, replacing any stage with the same name.
func (r *Registry) Register(s Stage) {
	name := s.Name()
	if _, ok := r.stages[name]; !ok {
		r.order = append(r.order, name)
	}
	r.stages[name] = s
}

// Get returns a stage by name.
func (r *Registry) Get(name string) (Stage, error) {
	s, ok := r.stages[name]
	if !ok {
		return nil, eris.Errorf("pipeline: unknown stage %q", name)
	}
	return s, nil
}

// Names returns all registered stage names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
