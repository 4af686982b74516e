package core

// Clone returns a deep copy of the reactor. The geometry transform pipeline
// clones before destructive mesh conversions so the caller's model survives a
// discarded solve.
func (r *Reactor) Clone() *Reactor {
	if r == nil {
		return nil
	}
	out := *r
	// a nil history must clone to nil, not to an empty slice: callers diff
	// clones against originals to verify discarded runs
	if r.StepLengthsDays != nil {
		out.StepLengthsDays = make([][]float64, len(r.StepLengthsDays))
		for i, s := range r.StepLengthsDays {
			out.StepLengthsDays[i] = append([]float64(nil), s...)
		}
	}
	out.Core = r.Core.clone()
	return &out
}

func (c *Core) clone() *Core {
	if c == nil {
		return nil
	}
	out := *c
	out.Assemblies = make([]*Assembly, len(c.Assemblies))
	for i, a := range c.Assemblies {
		out.Assemblies[i] = a.Clone()
	}
	return &out
}

// Clone returns a deep copy of the assembly and its blocks.
func (a *Assembly) Clone() *Assembly {
	out := *a
	out.Types = append([]string(nil), a.Types...)
	out.Blocks = make([]*Block, len(a.Blocks))
	for i, b := range a.Blocks {
		out.Blocks[i] = b.clone()
	}
	return &out
}

func (b *Block) clone() *Block {
	out := *b
	out.Types = append([]string(nil), b.Types...)
	out.EnergyGenConstants = append([]float64(nil), b.EnergyGenConstants...)
	if b.NumberDensities != nil {
		out.NumberDensities = make(map[string]float64, len(b.NumberDensities))
		for k, v := range b.NumberDensities {
			out.NumberDensities[k] = v
		}
	}
	out.Params = b.Params.clone()
	return &out
}

func (p BlockParams) clone() BlockParams {
	out := p
	out.MgFlux = append([]float64(nil), p.MgFlux...)
	out.AdjMgFlux = append([]float64(nil), p.AdjMgFlux...)
	out.MgFluxGamma = append([]float64(nil), p.MgFluxGamma...)
	out.ExtSrc = append([]float64(nil), p.ExtSrc...)
	out.PointsCornerDpa = append([]float64(nil), p.PointsCornerDpa...)
	out.PointsCornerDpaRate = append([]float64(nil), p.PointsCornerDpaRate...)
	out.PointsEdgeDpa = append([]float64(nil), p.PointsEdgeDpa...)
	out.PointsEdgeDpaRate = append([]float64(nil), p.PointsEdgeDpaRate...)
	return out
}
