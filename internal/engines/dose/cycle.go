package dose

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/corephysics/globalflux/pkg/core"
)

// loadPadSamples is the axial sampling resolution over the load pad span.
const loadPadSamples = 100

// UpdateCycleDoseParams refreshes the cycle-level dose summaries from the
// dose accrued this cycle: the peak this-cycle dose, its full-width
// half-max elevation span, and the projected above-core load pad elevations
// after 3 and 7 cycles. At the first time node of a cycle there is by
// definition no accumulated cycle dose, so nothing is computed.
func (m *Mapper) UpdateCycleDoseParams(r *core.Reactor) {
	if r.TimeNode <= 0 {
		return
	}

	c := r.Core
	var maxDpaThisCycle float64
	var peakDoseAssem *core.Assembly
	for _, a := range c.Assemblies {
		// strict > keeps the earliest assembly on an exact tie
		if v := a.MaxBlockValue(dpaThisCycle); v > maxDpaThisCycle {
			maxDpaThisCycle = v
			peakDoseAssem = a
		}
	}
	c.Params.MaxDetailedDpaThisCycle = maxDpaThisCycle
	if peakDoseAssem == nil {
		return
	}

	if heights := peakDoseAssem.ElevationsMatchingValue(dpaThisCycle, maxDpaThisCycle/2.0); len(heights) == 2 {
		c.Params.DpaFullWidthHalfMax = heights[1] - heights[0]
	} else {
		m.log.Info("unexpected this-cycle dose shape; half-max width left unset",
			"assembly", peakDoseAssem.Name, "target", maxDpaThisCycle/2.0, "crossings", len(heights))
	}

	if m.opts.Dose.AclpDoseLimit <= 0 || r.CycleLengthDays <= 0 {
		return
	}
	cycleFraction := r.DaysIntoCycle() / r.CycleLengthDays

	// the dose limit is prorated over how far into the cycle we are, then
	// split over the number of cycles the pad must survive
	for _, proj := range []struct {
		cycles float64
		out    *float64
	}{
		{3.0, &c.Params.ElevationOfACLP3Cycles},
		{7.0, &c.Params.ElevationOfACLP7Cycles},
	} {
		target := m.opts.Dose.AclpDoseLimit / proj.cycles * cycleFraction
		locations := peakDoseAssem.ElevationsMatchingValue(dpaThisCycle, target)
		if len(locations) != 2 {
			m.log.Info("unexpected this-cycle dose shape; ACLP elevation left unset",
				"assembly", peakDoseAssem.Name, "target", target, "crossings", len(locations))
			continue
		}
		*proj.out = locations[1]
	}
}

func dpaThisCycle(p *core.BlockParams) float64 { return p.DetailedDpaThisCycle }

// UpdateLoadpadDose summarizes the above-core load pad dose: the peak dpa in
// any pad and the highest length-averaged dpa in any pad, each with the
// assembly that attained it. A model without a configured load pad is a
// no-op.
func (m *Mapper) UpdateLoadpadDose(r *core.Reactor) {
	peakPeak, peakAvg, ok := m.calcLoadPadDose(r)
	if !ok {
		return
	}
	c := r.Core
	c.Params.LoadPadDpaPeak = peakPeak.value
	c.Params.LoadPadDpaPeakAssembly = peakPeak.assembly
	c.Params.LoadPadDpaAvg = peakAvg.value
	c.Params.LoadPadDpaAvgAssembly = peakAvg.assembly
	m.log.Info("above-core load pad dose summary",
		"padBottomCm", m.opts.Dose.LoadPadElevation,
		"peakDpa", peakPeak.value, "peakAssembly", peakPeak.assembly,
		"maxAvgDpa", peakAvg.value, "avgAssembly", peakAvg.assembly)
}

type padDose struct {
	value    float64
	assembly string
}

// calcLoadPadDose builds axial peak- and average-dose profiles over the load
// pad span for each fuel assembly and reduces them to the across-assembly
// maxima. The average uses trapezoidal integration over the pad, normalized
// by pad length.
func (m *Mapper) calcLoadPadDose(r *core.Reactor) (peakPeak, peakAvg padDose, ok bool) {
	padBottom := m.opts.Dose.LoadPadElevation
	padLength := m.opts.Dose.LoadPadLength
	if padBottom <= 0 || padLength <= 0 {
		return padDose{}, padDose{}, false
	}
	padTop := padBottom + padLength

	zs := make([]float64, loadPadSamples)
	floats.Span(zs, padBottom, padTop)

	for _, a := range r.Core.AssembliesWith(core.FlagFuel) {
		// control assemblies are excluded: their dpa diverges
		peakProfile, err := a.ProfileOf(func(p *core.BlockParams) float64 { return p.DetailedDpaPeak })
		if err != nil {
			m.log.Info("skipping assembly in load pad dose scan", "assembly", a.Name, "reason", err.Error())
			continue
		}
		avgProfile, err := a.ProfileOf(func(p *core.BlockParams) float64 { return p.DetailedDpa })
		if err != nil {
			continue
		}

		peakDose := floats.Max(peakProfile.Sample(zs))
		avgDose := integrate.Trapezoidal(zs, avgProfile.Sample(zs)) / padLength

		if peakDose > peakPeak.value {
			peakPeak = padDose{value: peakDose, assembly: a.Name}
		}
		if avgDose > peakAvg.value {
			peakAvg = padDose{value: avgDose, assembly: a.Name}
		}
	}
	return peakPeak, peakAvg, true
}
