// Package rates implements the instantaneous physics derivations run after a
// flux solve: dpa rates, one-group reaction rates, flux renormalization, and
// the energy-balance check.
package rates

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/pkg/core"
	"github.com/corephysics/globalflux/pkg/xslib"
)

const (
	// negativeDpaRateTol separates numerical noise (clamped to zero) from a
	// physically invalid negative rate (fatal).
	negativeDpaRateTol = -1.0e-10
)

// ErrNegativeDpaRate indicates a dpa rate substantially below zero, which is
// physically invalid and fatal to the run.
var ErrNegativeDpaRate = errors.New("calculated dpa rate is substantially negative")

// ComputeDpaRate convolves a multigroup flux with a dpa cross section in
// barns and returns the dpa rate in dpa/s.
//
// The structural material's number density cancels out of the rate: it is in
// the macroscopic cross section and in the atom count being displaced, so
// flux times microscopic cross section is all that remains.
//
// A group-length mismatch degrades to a zero rate with a warning. A slightly
// negative result is clamped to zero as numerical noise; a substantially
// negative result returns ErrNegativeDpaRate.
func ComputeDpaRate(log logr.Logger, mgFlux, dpaXs []float64) (float64, error) {
	if len(mgFlux) != len(dpaXs) {
		log.Info("multigroup flux incompatible with dpa cross section; dpa rate set to 0.0",
			"fluxGroups", len(mgFlux), "xsGroups", len(dpaXs))
		return 0.0, nil
	}
	var displacements float64
	for g := range mgFlux {
		displacements += mgFlux[g] * dpaXs[g]
	}
	dpaPerSecond := displacements * core.Cm2PerBarn

	if dpaPerSecond < 0 {
		if dpaPerSecond <= negativeDpaRateTol {
			return 0, fmt.Errorf("%w: %g dpa/s", ErrNegativeDpaRate, dpaPerSecond)
		}
		log.Info("negative dpa rate clamped to zero", "dpaPerSecond", dpaPerSecond)
		dpaPerSecond = 0.0
	}
	return dpaPerSecond, nil
}

// CalcReactionRates computes one-group reaction rates for a block from its
// composition, its multigroup flux, and the microscopic cross-section
// library, and writes them onto the block's parameters.
//
// Production from fission carries a 1/keff factor: the neutron balance is
// only exact at criticality, and the factor corrects production for sub- or
// super-critical flux shapes. n2n production carries a factor 2 because each
// reaction yields two secondary neutrons. Absorption equals capture plus
// fission by construction.
func CalcReactionRates(b *core.Block, keff float64, lib xslib.Library) error {
	if keff == 0 {
		return fmt.Errorf("block %s: cannot compute production rates with keff of zero", b.Name)
	}
	var rateCap, rateFis, rateAbs, rateProdFis, rateProdN2n float64

	mgFlux := b.Params.MgFlux
	for nucName, numberDensity := range b.NumberDensities {
		if numberDensity == 0.0 {
			continue
		}
		nuc, err := lib.Nuclide(nucName, b.MicroSuffix)
		if err != nil {
			return fmt.Errorf("block %s: %w", b.Name, err)
		}

		for _, reaction := range xslib.AbsorptionReactions {
			micros := nuc.Micros[reaction]
			for g := 0; g < len(mgFlux) && g < len(micros); g++ {
				dphi := numberDensity * mgFlux[g]
				rateAbs += dphi * micros[g]
				if reaction != "fission" {
					rateCap += dphi * micros[g]
					continue
				}
				rateFis += dphi * micros[g]
				if g < len(nuc.NeutronsPerFission) {
					rateProdFis += dphi * micros[g] * nuc.NeutronsPerFission[g] / keff
				}
			}
		}

		for g := 0; g < len(mgFlux) && g < len(nuc.N2n); g++ {
			// reaction-based n2n cross section: two neutrons out per reaction
			rateProdN2n += 2.0 * numberDensity * mgFlux[g] * nuc.N2n[g]
		}
	}

	p := &b.Params
	p.RateCap = rateCap
	p.RateFis = rateFis
	p.RateAbs = rateAbs
	p.RateProdFis = rateProdFis
	p.RateProdN2n = rateProdN2n
	p.RateProdNet = rateProdFis + rateProdN2n

	vFuel := 1.0
	if rateFis > 0.0 && b.FuelAreaFrac > 0 {
		vFuel = b.FuelAreaFrac
	}
	p.FissionDensity = rateFis / vFuel
	p.FissionDensHom = rateFis
	return nil
}
