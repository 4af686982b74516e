// Package solvertest provides an in-process fake kernel for exercising the
// orchestration pipeline without an external transport code.
package solvertest

import (
	"context"

	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
	"github.com/corephysics/globalflux/pkg/solver"
)

// Fake is a Solver that writes a fixed flux spectrum onto every block and
// reports a fixed eigenvalue. WriteFlux may be overridden per test.
type Fake struct {
	KernelName string
	KeffValue  float64
	Err        error

	// WriteFlux, when set, replaces the default per-block flux write.
	WriteFlux func(b *core.Block)

	// Solves counts invocations.
	Solves int
}

// Name implements solver.Solver.
func (f *Fake) Name() string { return f.KernelName }

// Solve implements solver.Solver: writes flux onto the model and returns the
// configured eigenvalue.
func (f *Fake) Solve(_ context.Context, r *core.Reactor, _ *config.Options) (solver.Result, error) {
	f.Solves++
	if f.Err != nil {
		return nil, f.Err
	}
	for _, b := range r.Core.Blocks() {
		if f.WriteFlux != nil {
			f.WriteFlux(b)
			continue
		}
		b.Params.MgFlux = []float64{1e14, 2e14}
		b.Params.Flux = 3e14
		b.Params.FluxPeak = 3.6e14
	}
	return solver.KeffResult(f.KeffValue), nil
}
