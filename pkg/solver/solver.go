// Package solver defines the boundary to the external neutron-transport
// kernel. The kernel is an opaque collaborator: it receives a (possibly
// transformed) reactor model plus options, writes multigroup flux onto the
// model's blocks, and returns an eigenvalue result.
//
// Kernels register themselves by name, typically from an init function in the
// kernel's own module:
//
//	solver.Register("FD-DIF3D", func() (solver.Solver, error) {
//	    return newDif3dSolver()
//	})
//
// The orchestrator resolves the kernel named in the run options via New.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
)

// ErrUnknownKernel indicates no solver is registered under the requested name.
var ErrUnknownKernel = errors.New("no solver registered for kernel")

// Result is the output contract of a flux solve. Flux and adjoint flux are
// written directly onto the model's blocks by the kernel; the eigenvalue
// comes back here.
type Result interface {
	// Keff is the effective multiplication factor of the solved state.
	Keff() float64
}

// Solver is an external flux/eigenvalue kernel.
type Solver interface {
	// Name returns the kernel name this solver registered under.
	Name() string

	// Solve runs the kernel on the model. A returned error is fatal to the
	// run; there is no retry. The call blocks until the kernel finishes.
	Solve(ctx context.Context, r *core.Reactor, opts *config.Options) (Result, error)
}

// Factory constructs a solver instance for one run.
type Factory func() (Solver, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a kernel available under a name. Later registrations of the
// same name win, so tests can shadow production kernels.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New resolves a registered kernel by name.
func New(name string) (Solver, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownKernel, name, Names())
	}
	return f()
}

// Names lists registered kernel names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// KeffResult is a minimal Result for kernels that only report an eigenvalue.
type KeffResult float64

// Keff implements Result.
func (k KeffResult) Keff() float64 { return float64(k) }
