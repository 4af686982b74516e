package transform

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
)

// AxialMeshStep converts the model to a uniform averaged axial mesh for the
// solver. It builds a converted copy; the caller's model is untouched until
// Undo optionally pushes solved state back onto it.
type AxialMeshStep struct {
	log       logr.Logger
	source    *core.Reactor
	converted *core.Reactor
}

// Kind implements Step.
func (s *AxialMeshStep) Kind() Kind { return KindAxial }

// Needed implements Step.
func (s *AxialMeshStep) Needed(opts *config.Options) bool {
	return opts.DetailedAxialExpansion || opts.HasNonUniformAssems
}

// Apply implements Step: clones the model and rebuilds every assembly onto a
// uniform mesh of equal-height blocks.
func (s *AxialMeshStep) Apply(r *core.Reactor) (*core.Reactor, error) {
	conv := r.Clone()
	for _, a := range conv.Core.Assemblies {
		if len(a.Blocks) < 2 {
			continue
		}
		uniform, err := uniformAssembly(a)
		if err != nil {
			return nil, err
		}
		a.Blocks = uniform
	}
	s.source = r
	s.converted = conv
	s.log.V(logging.DEBUG).Info("converted model to uniform axial mesh",
		"assemblies", len(conv.Core.Assemblies))
	return conv, nil
}

// Undo implements Step: when results are wanted on the caller's model (or a
// non-uniform assembly forced the conversion), push the converted state back
// onto the original mesh; either way the original model is what the run
// continues with. The converted copy is dropped.
func (s *AxialMeshStep) Undo(_ *core.Reactor, opts *config.Options) (*core.Reactor, error) {
	if s.source == nil {
		return nil, fmt.Errorf("axial mesh undo without a prior apply")
	}
	src := s.source
	if opts.ApplyResultsToReactor || opts.HasNonUniformAssems {
		applyStateToOriginal(s.source, s.converted)
	}
	s.source = nil
	s.converted = nil
	return src, nil
}

// uniformAssembly rebuilds an assembly's block stack onto equal-height
// blocks, conserving extensive quantities and overlap-averaging intensive
// ones.
func uniformAssembly(a *core.Assembly) ([]*core.Block, error) {
	n := len(a.Blocks)
	height := a.Height()
	if height <= 0 {
		return nil, fmt.Errorf("assembly %s has non-positive height", a.Name)
	}
	dz := height / float64(n)
	out := make([]*core.Block, n)
	for j := 0; j < n; j++ {
		b := &core.Block{
			Name:   fmt.Sprintf("%s-u%d", a.Name, j),
			Height: dz,
		}
		remapBlock(b, a.Blocks, float64(j)*dz, float64(j+1)*dz, true)
		out[j] = b
	}
	return out, nil
}

// applyStateToOriginal maps solver and mapper results from the converted
// uniform mesh back onto the source mesh, assembly by assembly, and copies
// the core-level summaries.
func applyStateToOriginal(src, conv *core.Reactor) {
	for i, sa := range src.Core.Assemblies {
		if i >= len(conv.Core.Assemblies) {
			break
		}
		ca := conv.Core.Assemblies[i]
		var z float64
		for _, sb := range sa.Blocks {
			remapBlock(sb, ca.Blocks, z, z+sb.Height, false)
			z += sb.Height
		}
		sa.Params = ca.Params
	}
	src.Core.Params = conv.Core.Params
}

// overlapPart is one source block's contribution to a destination span.
type overlapPart struct {
	b    *core.Block
	frac float64 // fraction of the destination span covered by b
	of   float64 // fraction of b lying inside the destination span
}

// overlapParts collects the source blocks intersecting [lo, hi).
func overlapParts(src []*core.Block, lo, hi float64) []overlapPart {
	var parts []overlapPart
	var z float64
	for _, b := range src {
		b0, b1 := z, z+b.Height
		z = b1
		o := minf(hi, b1) - maxf(lo, b0)
		if o <= 0 {
			continue
		}
		parts = append(parts, overlapPart{b: b, frac: o / (hi - lo), of: o / b.Height})
	}
	return parts
}

// remapBlock fills dst's solution state from the span [lo, hi) of the src
// stack. Intensive fields are overlap-length weighted averages, power is
// redistributed conserving the total, peak fields take the max over
// contributors. includeComposition also remaps composition and geometry
// metadata (forward conversion only).
func remapBlock(dst *core.Block, src []*core.Block, lo, hi float64, includeComposition bool) {
	parts := overlapParts(src, lo, hi)
	if len(parts) == 0 {
		return
	}

	avg := func(get func(*core.BlockParams) float64) float64 {
		var v float64
		for _, p := range parts {
			v += get(&p.b.Params) * p.frac
		}
		return v
	}
	peak := func(get func(*core.BlockParams) float64) float64 {
		var v float64
		for i, p := range parts {
			if g := get(&p.b.Params); i == 0 || g > v {
				v = g
			}
		}
		return v
	}

	dp := &dst.Params
	dp.Flux = avg(func(p *core.BlockParams) float64 { return p.Flux })
	dp.FluxPeak = peak(func(p *core.BlockParams) float64 { return p.FluxPeak })
	dp.FastFluxFraction = avg(func(p *core.BlockParams) float64 { return p.FastFluxFraction })
	dp.PowerDensity = avg(func(p *core.BlockParams) float64 { return p.PowerDensity })
	dp.FissionDensity = avg(func(p *core.BlockParams) float64 { return p.FissionDensity })
	dp.FissionDensHom = avg(func(p *core.BlockParams) float64 { return p.FissionDensHom })
	for _, name := range []string{
		"rateCap", "rateFis", "rateProdN2n", "rateProdFis", "rateProdNet", "rateAbs",
		"detailedDpaRate", "detailedDpaPeakRate",
	} {
		acc, _ := core.ScalarParamByName(name)
		var v float64
		for _, p := range parts {
			v += *acc(&p.b.Params) * p.frac
		}
		*acc(dp) = v
	}

	// power is extensive: take each contributor's in-span share
	var power float64
	for _, p := range parts {
		power += p.b.Params.Power * p.of
	}
	dp.Power = power

	dp.MgFlux = avgVector(parts, func(b *core.Block) []float64 { return b.Params.MgFlux })
	dp.AdjMgFlux = avgVector(parts, func(b *core.Block) []float64 { return b.Params.AdjMgFlux })

	if includeComposition {
		var flags core.Flags
		dens := map[string]float64{}
		var vol, fuelFrac float64
		for _, p := range parts {
			flags |= p.b.Flags
			for nuc, nd := range p.b.NumberDensities {
				dens[nuc] += nd * p.frac
			}
			vol += p.b.Volume * p.of
			fuelFrac += p.b.FuelAreaFrac * p.frac
		}
		dst.Flags = flags
		dst.NumberDensities = dens
		dst.Volume = vol
		dst.FuelAreaFrac = fuelFrac
		dst.MicroSuffix = parts[0].b.MicroSuffix
		dst.EnergyGenConstants = avgVector(parts,
			func(b *core.Block) []float64 { return b.EnergyGenConstants })
	}
}

// avgVector overlap-averages per-group vectors; contributors with a missing
// or mismatched vector are skipped.
func avgVector(parts []overlapPart, get func(*core.Block) []float64) []float64 {
	var out []float64
	for _, p := range parts {
		v := get(p.b)
		if len(v) == 0 {
			continue
		}
		if out == nil {
			out = make([]float64, len(v))
		}
		if len(v) != len(out) {
			continue
		}
		for g := range v {
			out[g] += v[g] * p.frac
		}
	}
	return out
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
