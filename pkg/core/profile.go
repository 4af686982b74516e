package core

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// BlockCenters returns the axial elevation of each block's center in cm,
// measured from the assembly bottom.
func (a *Assembly) BlockCenters() []float64 {
	centers := make([]float64, len(a.Blocks))
	var z float64
	for i, b := range a.Blocks {
		centers[i] = z + b.Height/2.0
		z += b.Height
	}
	return centers
}

// AxialProfile is a piecewise-linear axial shape of one block parameter,
// defined at block centers and extrapolated linearly beyond them.
type AxialProfile struct {
	pl interp.PiecewiseLinear
	xs []float64
	ys []float64
}

// ProfileOf builds an axial profile of the given parameter. Assemblies with
// fewer than two blocks cannot define a profile.
func (a *Assembly) ProfileOf(get func(*BlockParams) float64) (*AxialProfile, error) {
	if len(a.Blocks) < 2 {
		return nil, fmt.Errorf("assembly %s: need at least 2 blocks for an axial profile, have %d",
			a.Name, len(a.Blocks))
	}
	xs := a.BlockCenters()
	ys := make([]float64, len(a.Blocks))
	for i, b := range a.Blocks {
		ys[i] = get(&b.Params)
	}
	p := &AxialProfile{xs: xs, ys: ys}
	if err := p.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("assembly %s: fitting axial profile: %w", a.Name, err)
	}
	return p, nil
}

// At evaluates the profile at elevation z. Outside the block-center span the
// end segments are extended linearly, matching the upstream spline behavior.
func (p *AxialProfile) At(z float64) float64 {
	n := len(p.xs)
	switch {
	case z < p.xs[0]:
		slope := (p.ys[1] - p.ys[0]) / (p.xs[1] - p.xs[0])
		return p.ys[0] + slope*(z-p.xs[0])
	case z > p.xs[n-1]:
		slope := (p.ys[n-1] - p.ys[n-2]) / (p.xs[n-1] - p.xs[n-2])
		return p.ys[n-1] + slope*(z-p.xs[n-1])
	default:
		return p.pl.Predict(z)
	}
}

// Sample evaluates the profile at each elevation.
func (p *AxialProfile) Sample(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = p.At(z)
	}
	return out
}

// ElevationsMatchingValue returns the elevations, in ascending order, where
// the parameter's piecewise-linear axial shape crosses target. Elevations are
// interpolated between block centers.
func (a *Assembly) ElevationsMatchingValue(get func(*BlockParams) float64, target float64) []float64 {
	centers := a.BlockCenters()
	var out []float64
	for i := 0; i+1 < len(a.Blocks); i++ {
		y0 := get(&a.Blocks[i].Params)
		y1 := get(&a.Blocks[i+1].Params)
		if y0 == y1 {
			continue
		}
		t := (target - y0) / (y1 - y0)
		if t < 0 || t > 1 {
			continue
		}
		// skip duplicate crossing at a shared block center
		z := centers[i] + t*(centers[i+1]-centers[i])
		if len(out) > 0 && z == out[len(out)-1] {
			continue
		}
		out = append(out, z)
	}
	return out
}
