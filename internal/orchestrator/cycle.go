package orchestrator

import (
	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/engines/dose"
	"github.com/corephysics/globalflux/pkg/core"
)

// CycleTracker carries begin-of-cycle state between the first and last time
// node of a burn cycle. One tracker per reactor model.
type CycleTracker struct {
	log     logr.Logger
	bocKeff float64
	haveBOC bool
}

func NewCycleTracker(log logr.Logger) *CycleTracker {
	return &CycleTracker{log: log}
}

// BeginCycle records the begin-of-cycle eigenvalue and zeroes the per-cycle
// accumulators. Call at the first time node of each cycle, after the flux
// evaluation for that node.
func (t *CycleTracker) BeginCycle(r *core.Reactor) {
	t.bocKeff = r.Core.Params.Keff
	t.haveBOC = true
	dose.ZeroCycleParams(r.Core)
	t.log.Info("begin of cycle", "cycle", r.Cycle, "keff", t.bocKeff)
}

// EndCycle computes the cycle reactivity swing in pcm from the stored
// begin-of-cycle eigenvalue. A tracker that never saw a cycle start leaves
// the parameter alone.
func (t *CycleTracker) EndCycle(r *core.Reactor) {
	if !t.haveBOC || t.bocKeff == 0 {
		t.log.Info("no begin-of-cycle keff recorded, skipping reactivity swing")
		return
	}
	keff := r.Core.Params.Keff
	r.Core.Params.RxSwing = (keff - t.bocKeff) / t.bocKeff * core.AbsReactivityToPCM
	t.log.Info("end of cycle", "cycle", r.Cycle,
		"bocKeff", t.bocKeff, "eocKeff", keff, "rxSwing", r.Core.Params.RxSwing)
	t.haveBOC = false
}
