package rates

import "github.com/corephysics/globalflux/pkg/core"

// UpdateDerivedParams refreshes the summaries that follow directly from flux
// and power: core maxima, areal power densities, and the assembly-level
// aggregates including assembly-average k-infinity.
func UpdateDerivedParams(c *core.Core) {
	if v := c.MaxBlockValue(core.FlagFuel, func(p *core.BlockParams) float64 { return p.PercentBu }); v != 0 {
		c.Params.MaxPercentBu = v
	}
	if v := c.MaxBlockValue(core.FlagFuel, func(p *core.BlockParams) float64 { return p.PowerDensity }); v != 0 {
		c.Params.MaxPowerDensity = v
	}
	c.Params.MaxFlux = c.MaxBlockValue(0, func(p *core.BlockParams) float64 { return p.Flux })

	conversion := core.Cm2PerM2 / core.WattsPerMW
	for _, a := range c.Assemblies {
		var assemblyPd float64
		for _, b := range a.Blocks {
			if a.Area > 0 {
				b.Params.ArealPd = b.Params.Power / a.Area * conversion
			} else {
				// no area, no areal density; never carry a stale value
				b.Params.ArealPd = 0
			}
			assemblyPd += b.Params.ArealPd
		}
		a.Params.ArealPd = assemblyPd
	}
	var maxPd float64
	for _, a := range c.Assemblies {
		if a.Params.ArealPd > maxPd {
			maxPd = a.Params.ArealPd
		}
	}
	c.Params.MaxArealPd = maxPd

	updateAssemblyLevelParams(c)
}

// updateAssemblyLevelParams refreshes per-assembly aggregates from block
// state.
func updateAssemblyLevelParams(c *core.Core) {
	for _, a := range c.Assemblies {
		var totalAbs, totalSrc float64
		for _, b := range a.Blocks {
			totalAbs += b.Params.RateAbs
			totalSrc += b.Params.RateProdNet
		}

		a.Params.MaxPercentBu = a.MaxBlockValue(func(p *core.BlockParams) float64 { return p.PercentBu })
		a.Params.MaxDpaPeak = a.MaxBlockValue(func(p *core.BlockParams) float64 { return p.DetailedDpaPeak })
		if v, ok := a.MinBlockValue(core.FlagFuel, func(p *core.BlockParams) float64 { return p.TimeToLimit }); ok {
			a.Params.TimeToLimit = v
		}
		a.Params.BuLimit = a.MaxBlockValue(func(p *core.BlockParams) float64 { return p.BuLimit })

		if totalAbs > 0 {
			a.Params.KInf = totalSrc / totalAbs
		}
	}
}
