// Package transform implements the reversible geometry transform pipeline
// run around every flux solve.
//
// The pipeline holds an ordered list of steps. Apply walks the list forward
// and records each step that fired; Restore walks the applied list backward,
// which makes the reverse-order undo requirement structural: edge-assembly
// removal always happens before the axial mesh is unwound, because edge
// removal depends on the pre-removal assembly indexing the axial converter
// would otherwise disturb.
package transform

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
)

// Kind identifies a transform step.
type Kind string

const (
	KindAxial          Kind = "axial"
	KindEdgeAssemblies Kind = "edgeAssemblies"
)

// ErrPipelineActive indicates Apply was called while a prior transform had
// not been restored. This is a programming error: a restore was skipped.
var ErrPipelineActive = errors.New("model already transformed but not restored")

// Step is one reversible model transform. Apply may return a different model
// (mesh conversion builds a copy); Undo returns the model the run continues
// with afterwards (the original, for copy-based steps).
type Step interface {
	Kind() Kind
	Needed(opts *config.Options) bool
	Apply(r *core.Reactor) (*core.Reactor, error)
	Undo(r *core.Reactor, opts *config.Options) (*core.Reactor, error)
}

// Pipeline applies and restores geometry transforms in a fixed order.
type Pipeline struct {
	log     logr.Logger
	steps   []Step
	applied []Step
}

// NewPipeline builds the standard pipeline: axial mesh first, edge
// assemblies second.
func NewPipeline(log logr.Logger) *Pipeline {
	return &Pipeline{
		log:   log,
		steps: []Step{&AxialMeshStep{log: log}, &EdgeAssemblyStep{log: log}},
	}
}

// Active reports whether any step is currently applied.
func (p *Pipeline) Active() bool { return len(p.applied) > 0 }

// AppliedKinds lists the currently applied step kinds, in apply order.
func (p *Pipeline) AppliedKinds() []Kind {
	out := make([]Kind, len(p.applied))
	for i, s := range p.applied {
		out[i] = s.Kind()
	}
	return out
}

// Apply runs every needed step in order and returns the model the solver
// should see. Calling Apply while a prior transform is still active fails
// with ErrPipelineActive.
func (p *Pipeline) Apply(r *core.Reactor, opts *config.Options) (*core.Reactor, error) {
	if p.Active() {
		return nil, fmt.Errorf("%w (active: %v); this is a programming error and requires investigation",
			ErrPipelineActive, p.AppliedKinds())
	}
	working := r
	for _, s := range p.steps {
		if !s.Needed(opts) {
			continue
		}
		next, err := s.Apply(working)
		if err != nil {
			return nil, fmt.Errorf("applying %s transform: %w", s.Kind(), err)
		}
		p.applied = append(p.applied, s)
		p.log.V(logging.DEBUG).Info("applied geometry transform", "kind", s.Kind())
		working = next
	}
	return working, nil
}

// Restore undoes the applied steps in reverse order and returns the restored
// model. The applied list is cleared unconditionally, so a repeated Restore
// is a no-op and a subsequent Apply is always well-formed.
func (p *Pipeline) Restore(r *core.Reactor, opts *config.Options) (*core.Reactor, error) {
	defer func() { p.applied = nil }()
	working := r
	for i := len(p.applied) - 1; i >= 0; i-- {
		s := p.applied[i]
		next, err := s.Undo(working, opts)
		if err != nil {
			return working, fmt.Errorf("undoing %s transform: %w", s.Kind(), err)
		}
		p.log.V(logging.DEBUG).Info("restored geometry transform", "kind", s.Kind())
		working = next
	}
	return working, nil
}

// Clear drops the applied registry without undoing, for best-effort cleanup
// after a failed solve.
func (p *Pipeline) Clear() { p.applied = nil }
