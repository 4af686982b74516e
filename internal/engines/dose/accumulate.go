package dose

import (
	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/pkg/core"
)

// UpdateFluenceAndDpa advances cumulative fluence, dpa, and burnup state by
// one depletion step of stepSeconds. The dpa increments use the rates stored
// at the previous flux solve: rates are always one step stale relative to
// the accumulation they drive.
func (m *Mapper) UpdateFluenceAndDpa(r *core.Reactor, stepSeconds float64, blocks []*core.Block) error {
	if blocks == nil {
		blocks = r.Core.Blocks()
	}
	if len(blocks) == 0 {
		return nil
	}
	if blocks[0].Params.FluxPeak == 0 {
		m.log.Info("no peak flux on this model; peak dpa will equal average dpa. " +
			"Perhaps this is not a nodal approximation.")
	}

	warnedPeaking := false
	for _, b := range blocks {
		p := &b.Params
		p.Residence += stepSeconds / core.SecondsPerDay
		p.Fluence += p.Flux * stepSeconds
		p.FastFluence += p.Flux * stepSeconds * p.FastFluxFraction
		p.FastFluencePeak += p.FluxPeak * stepSeconds * p.FastFluxFraction

		// dpa increments come from the rate stored at the last flux solve
		p.NewDpa = p.DetailedDpaRate * stepSeconds
		p.NewDpaPeak = p.DetailedDpaPeakRate * stepSeconds
		p.DetailedDpa += p.NewDpa
		p.DetailedDpaPeak += p.NewDpaPeak
		p.DetailedDpaThisCycle += p.NewDpa

		accumulatePointDpa(&p.PointsCornerDpa, p.PointsCornerDpaRate, stepSeconds)
		accumulatePointDpa(&p.PointsEdgeDpa, p.PointsEdgeDpaRate, stepSeconds)

		if m.opts.Dose.DpaPerFluence != 0 {
			// legacy fluence-based conversion, kept independent of the
			// rate-based accumulation
			p.DpaPeakFromFluence = p.FastFluencePeak * m.opts.Dose.DpaPerFluence
		}

		// peak burnup: prefer a peak rate, then a peaked average rate, then
		// re-derive from the current average burnup
		var peakRate float64
		switch {
		case p.BuRatePeak != 0:
			peakRate = p.BuRatePeak
		case p.BuRate != 0:
			peakRate = p.BuRate * m.BurnupPeakingFactor(b)
		}
		if peakRate != 0 {
			p.PercentBuPeak += peakRate / core.SecondsPerDay * stepSeconds
		} else {
			if !warnedPeaking {
				m.log.Info("scaling peak burnup by current peaking factor; this assumes " +
					"peaking was constant through the shuffling and irradiation history")
				warnedPeaking = true
			}
			p.PercentBuPeak = p.PercentBu * m.BurnupPeakingFactor(b)
		}
	}

	for _, a := range r.Core.Assemblies {
		a.Params.DaysSinceLastMove += stepSeconds / core.SecondsPerDay
	}

	m.UpdateMaxDpaParams(r.Core)
	m.UpdateCycleDoseParams(r)
	m.UpdateLoadpadDose(r)
	m.log.V(logging.DEBUG).Info("updated fluence and dpa",
		"stepSeconds", stepSeconds, "blocks", len(blocks))
	return nil
}

// accumulatePointDpa advances a point-wise (hex corner or edge) dpa array
// from its rate array; a nil rate array is a no-op for non-hex blocks.
func accumulatePointDpa(points *[]float64, pointRates []float64, stepSeconds float64) {
	if len(pointRates) == 0 {
		return
	}
	if len(*points) != len(pointRates) {
		*points = make([]float64, len(pointRates))
	}
	for i, rate := range pointRates {
		(*points)[i] += rate * stepSeconds
	}
}

// ZeroCycleParams clears the per-cycle accumulators at the beginning of a
// cycle: with no dose accrued yet, the cycle summaries are defined as zero.
func ZeroCycleParams(c *core.Core) {
	c.Params.RxSwing = 0.0
	c.Params.MaxDetailedDpaThisCycle = 0.0
	c.Params.DpaFullWidthHalfMax = 0.0
	c.Params.ElevationOfACLP3Cycles = 0.0
	c.Params.ElevationOfACLP7Cycles = 0.0
	for _, b := range c.Blocks() {
		b.Params.DetailedDpaThisCycle = 0.0
		b.Params.NewDpa = 0.0
	}
}
