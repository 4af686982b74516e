package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/engines/dose"
	"github.com/corephysics/globalflux/internal/engines/limits"
	"github.com/corephysics/globalflux/internal/engines/rates"
	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/internal/metrics"
	"github.com/corephysics/globalflux/internal/transform"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
	"github.com/corephysics/globalflux/pkg/solver"
	"github.com/corephysics/globalflux/pkg/xslib"
)

// State is the executer's position in its Idle → Transformed → Solved → Idle
// cycle.
type State int

const (
	StateIdle State = iota
	StateTransformed
	StateSolved
)

// Output is the result of one flux evaluation.
type Output struct {
	keff float64
}

// Keff returns the eigenvalue of the solve.
func (o *Output) Keff() float64 { return o.keff }

// Executer coordinates one flux evaluation over a reactor model. It owns the
// model for the duration of its state-machine cycle; no other executer may
// operate on the same model concurrently.
type Executer struct {
	log      logr.Logger
	opts     *config.Options
	model    *core.Reactor
	pipeline *transform.Pipeline
	solver   solver.Solver
	lib      xslib.Library
	doser    *dose.Mapper
	metrics  *metrics.Metrics
	state    State
}

// Config wires an Executer. Lib and Doser are optional: without a library
// the reaction-rate pass is skipped, without a dose mapper the dpa-rate pass
// is skipped. Metrics is optional.
type Config struct {
	Log     logr.Logger
	Options *config.Options
	Model   *core.Reactor
	Solver  solver.Solver
	Lib     xslib.Library
	Doser   *dose.Mapper
	Metrics *metrics.Metrics
}

// New builds an Executer with an empty transform registry.
func New(cfg Config) (*Executer, error) {
	if cfg.Options == nil {
		return nil, fmt.Errorf("executer: options cannot be nil")
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}
	if cfg.Model == nil {
		return nil, fmt.Errorf("executer: model cannot be nil")
	}
	if cfg.Solver == nil {
		return nil, fmt.Errorf("executer: solver cannot be nil")
	}
	return &Executer{
		log:      cfg.Log,
		opts:     cfg.Options,
		model:    cfg.Model,
		pipeline: transform.NewPipeline(cfg.Log),
		solver:   cfg.Solver,
		lib:      cfg.Lib,
		doser:    cfg.Doser,
		metrics:  cfg.Metrics,
		state:    StateIdle,
	}, nil
}

// State returns the executer's current state.
func (e *Executer) State() State { return e.state }

// Run performs one full evaluation cycle: transform, solve, map, restore.
// Any stage failure is fatal; the transform registry is cleared best-effort
// so a later Run starts well-formed, but already-written parameters are not
// rolled back.
func (e *Executer) Run(ctx context.Context) (*Output, error) {
	if e.state != StateIdle {
		return nil, fmt.Errorf("executer: run re-entered in state %d", e.state)
	}

	// a discarded-results run must never touch the caller's model: the edge
	// assembly transform and the kernel both write in place, so hand the
	// pipeline a scratch copy up front
	input := e.model
	if !e.opts.ApplyResultsToReactor {
		input = e.model.Clone()
	}

	working, err := e.pipeline.Apply(input, e.opts)
	if err != nil {
		e.pipeline.Clear()
		return nil, err
	}
	e.state = StateTransformed

	e.log.Info("invoking flux solver",
		"kernel", e.solver.Name(), "label", e.opts.Label,
		"eigenvalue", e.opts.EigenvalueProblem, "adjoint", e.opts.Adjoint)
	start := time.Now()
	result, err := e.solver.Solve(ctx, working, e.opts)
	if err != nil {
		e.pipeline.Clear()
		e.state = StateIdle
		if e.metrics != nil {
			e.metrics.SolveFailuresTotal.Inc()
		}
		return nil, fmt.Errorf("flux solve %q failed: %w", e.opts.Label, err)
	}
	e.state = StateSolved
	keff := result.Keff()
	if e.metrics != nil {
		e.metrics.SolvesTotal.Inc()
		e.metrics.SolveDuration.Observe(time.Since(start).Seconds())
		e.metrics.Keff.Set(keff)
	}
	e.log.Info("flux solve complete", "keff", keff, "duration", time.Since(start))

	if err := e.mapResults(working, keff); err != nil {
		e.pipeline.Clear()
		e.state = StateIdle
		return nil, err
	}

	if _, err := e.pipeline.Restore(working, e.opts); err != nil {
		e.state = StateIdle
		return nil, err
	}
	e.state = StateIdle
	return &Output{keff: keff}, nil
}

// mapResults runs the post-solve mapping pass on the solved (possibly
// transformed) model.
func (e *Executer) mapResults(working *core.Reactor, keff float64) error {
	c := working.Core
	c.Params.Keff = keff

	// scale flux to the specified power before anything derives from it
	if c.Params.Power > 0 {
		target := c.Params.Power / c.PowerMultiplier()
		if err := rates.RenormalizeFluxByBlock(e.log, c, target); err != nil {
			return err
		}
	}

	if e.lib != nil && e.opts.CalcReactionRatesOnMeshConversion {
		for _, b := range c.Blocks() {
			if err := rates.CalcReactionRates(b, keff, e.lib); err != nil {
				return err
			}
		}
		e.log.V(logging.DEBUG).Info("reaction rates updated", "blocks", len(c.Blocks()))
	}

	if e.doser != nil {
		if err := e.doser.UpdateDpaRate(c, nil); err != nil {
			return err
		}
		if e.opts.Dose.StructuralDpaLimit > 0 {
			limits.NewChecker(e.log, e.opts.Dose.StructuralDpaLimit).Update(c)
		}
	}

	rates.UpdateDerivedParams(c)

	if c.Params.Power > 0 {
		if err := rates.CheckEnergyBalance(c); err != nil {
			if e.metrics != nil {
				e.metrics.EnergyImbalances.Inc()
			}
			return err
		}
	}
	return nil
}

// ClearFlux deletes flux state on every block. Needed to prevent stale flux
// when partially reloading a model.
func ClearFlux(c *core.Core) {
	for _, b := range c.Blocks() {
		b.Params.MgFlux = nil
		b.Params.AdjMgFlux = nil
		b.Params.MgFluxGamma = nil
		b.Params.ExtSrc = nil
	}
}

// CalculateKeff runs an evaluation that leaves the caller's model untouched
// and returns only the eigenvalue. Used for direct-eigenvalue reactivity
// coefficients and control-worth iterations.
func CalculateKeff(ctx context.Context, cfg Config) (float64, error) {
	cfg.Options = cfg.Options.WithApplyResults(false)
	e, err := New(cfg)
	if err != nil {
		return 0, err
	}
	out, err := e.Run(ctx)
	if err != nil {
		return 0, err
	}
	return out.Keff(), nil
}
