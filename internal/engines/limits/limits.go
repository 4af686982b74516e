// Package limits evaluates block life-limits after a dose update: how long
// each fuel block can keep operating before reaching its burnup limit or the
// structural dpa limit. The tightest limit wins.
package limits

import (
	"math"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/pkg/core"
)

// noLimit is the time-to-limit written for blocks with no active limit.
const noLimit = 1e9 // days

// Checker projects time-to-limit from current rates. A zero StructuralDpaLimit
// disables the dpa projection; burnup limits come from the blocks themselves.
type Checker struct {
	log                logr.Logger
	structuralDpaLimit float64
}

func NewChecker(log logr.Logger, structuralDpaLimit float64) *Checker {
	return &Checker{log: log, structuralDpaLimit: structuralDpaLimit}
}

// Update refreshes TimeToLimit on every fuel block from the current burnup
// and dpa rates. Rates of zero leave the corresponding projection inactive.
func (c *Checker) Update(co *core.Core) {
	for _, b := range co.Blocks() {
		if !b.HasFlags(core.FlagFuel) {
			continue
		}
		b.Params.TimeToLimit = c.timeToLimit(b)
	}
	c.logLimiting(co)
}

// timeToLimit returns the projected days until the block hits its tightest
// limit.
func (c *Checker) timeToLimit(b *core.Block) float64 {
	p := &b.Params
	t := noLimit

	if p.BuLimit > 0 && p.BuRate > 0 {
		if remaining := p.BuLimit - p.PercentBu; remaining <= 0 {
			return 0
		} else if days := remaining / p.BuRate; days < t {
			t = days
		}
	}
	if c.structuralDpaLimit > 0 && p.DetailedDpaPeakRate > 0 {
		remaining := c.structuralDpaLimit - p.DetailedDpaPeak
		if remaining <= 0 {
			return 0
		}
		days := remaining / (p.DetailedDpaPeakRate * core.SecondsPerDay)
		if days < t {
			t = days
		}
	}
	return t
}

// logLimiting reports the limiting assembly, the one with the smallest
// time-to-limit over its fuel blocks.
func (c *Checker) logLimiting(co *core.Core) {
	limiting := ""
	t := math.Inf(1)
	for _, a := range co.AssembliesWith(core.FlagFuel) {
		if v, ok := a.MinBlockValue(core.FlagFuel,
			func(p *core.BlockParams) float64 { return p.TimeToLimit }); ok && v < t {
			t = v
			limiting = a.Name
		}
	}
	if limiting == "" || t >= noLimit {
		return
	}
	c.log.V(logging.DEBUG).Info("limiting assembly", "assembly", limiting, "timeToLimitDays", t)
}
