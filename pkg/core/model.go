package core

// Block is the unit of physics state: a homogenized axial segment of an
// assembly with its own composition and parameter record.
type Block struct {
	Name   string   `yaml:"name"`
	Flags  Flags    `yaml:"-"`
	Types  []string `yaml:"types,omitempty"` // flag names, parsed on load
	Height float64  `yaml:"height"`          // cm
	Volume float64  `yaml:"volume,omitempty"` // cm^3

	// FuelAreaFrac is the fuel component area fraction used to normalize
	// fission density.
	FuelAreaFrac float64 `yaml:"fuelAreaFrac,omitempty"`

	// NumberDensities maps nuclide name to atom density in atoms/(barn*cm).
	NumberDensities map[string]float64 `yaml:"numberDensities,omitempty"`

	// MicroSuffix selects the cross-section set variant for this block.
	MicroSuffix string `yaml:"microSuffix,omitempty"`

	// EnergyGenConstants are per-group energy generation constants (J/cm)
	// used for flux renormalization; optional.
	EnergyGenConstants []float64 `yaml:"energyGenConstants,omitempty"`

	Params BlockParams `yaml:"params,omitempty"`
}

// HasFlags reports whether the block carries any of the given flags.
func (b *Block) HasFlags(mask Flags) bool {
	return b.Flags.HasAny(mask)
}

// Assembly is an axial stack of blocks. Blocks[0] is at the bottom.
type Assembly struct {
	Name   string   `yaml:"name"`
	Number int      `yaml:"number"`
	Flags  Flags    `yaml:"-"`
	Types  []string `yaml:"types,omitempty"`
	Area   float64  `yaml:"area,omitempty"` // cm^2

	// SymmetryEdge marks assemblies bisected by the symmetry boundary,
	// the ones duplicated by the edge-assembly transform.
	SymmetryEdge bool `yaml:"symmetryEdge,omitempty"`

	// addedByTransform marks duplicates inserted by the edge-assembly
	// transform so the undo step can find them.
	addedByTransform bool

	Blocks []*Block       `yaml:"blocks"`
	Params AssemblyParams `yaml:"params,omitempty"`
}

// HasFlags reports whether the assembly carries any of the given flags.
func (a *Assembly) HasFlags(mask Flags) bool {
	return a.Flags.HasAny(mask)
}

// Height returns the total axial height of the assembly in cm.
func (a *Assembly) Height() float64 {
	var h float64
	for _, b := range a.Blocks {
		h += b.Height
	}
	return h
}

// MaxBlockValue returns the maximum of get over the assembly's blocks.
func (a *Assembly) MaxBlockValue(get func(*BlockParams) float64) float64 {
	var max float64
	for i, b := range a.Blocks {
		v := get(&b.Params)
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}

// MinBlockValue returns the minimum of get over blocks matching mask.
// A zero mask matches all blocks. Returns (0, false) when nothing matches.
func (a *Assembly) MinBlockValue(mask Flags, get func(*BlockParams) float64) (float64, bool) {
	var min float64
	found := false
	for _, b := range a.Blocks {
		if mask != 0 && !b.HasFlags(mask) {
			continue
		}
		v := get(&b.Params)
		if !found || v < min {
			min = v
		}
		found = true
	}
	return min, found
}

// MarkAddedByTransform flags the assembly as a transform-inserted duplicate.
func (a *Assembly) MarkAddedByTransform() { a.addedByTransform = true }

// AddedByTransform reports whether this assembly was inserted by a transform.
func (a *Assembly) AddedByTransform() bool { return a.addedByTransform }

// Core owns the assemblies plus the geometry and symmetry descriptors.
type Core struct {
	Name       string      `yaml:"name"`
	Geom       GeomType    `yaml:"geom"`
	Symmetry   Symmetry    `yaml:"symmetry"`
	Assemblies []*Assembly `yaml:"assemblies"`
	Params     CoreParams  `yaml:"params,omitempty"`

	// assemblyCounter issues assembly numbers. Owned here so transform undo
	// steps can reset it explicitly rather than as a destruction side effect.
	assemblyCounter int
}

// PowerMultiplier is the modeled-to-full-core power factor.
func (c *Core) PowerMultiplier() float64 {
	return c.Symmetry.PowerMultiplier()
}

// Blocks returns all blocks in assembly order, bottom-up within assemblies.
func (c *Core) Blocks() []*Block {
	var out []*Block
	for _, a := range c.Assemblies {
		out = append(out, a.Blocks...)
	}
	return out
}

// AssembliesWith returns assemblies matching any of the given flags.
func (c *Core) AssembliesWith(mask Flags) []*Assembly {
	var out []*Assembly
	for _, a := range c.Assemblies {
		if a.HasFlags(mask) {
			out = append(out, a)
		}
	}
	return out
}

// MaxBlockValue returns the maximum of get over blocks matching mask.
// A zero mask matches all blocks.
func (c *Core) MaxBlockValue(mask Flags, get func(*BlockParams) float64) float64 {
	var max float64
	for _, b := range c.Blocks() {
		if mask != 0 && !b.HasFlags(mask) {
			continue
		}
		if v := get(&b.Params); v > max {
			max = v
		}
	}
	return max
}

// NextAssemblyNumber issues the next assembly number.
func (c *Core) NextAssemblyNumber() int {
	c.assemblyCounter++
	return c.assemblyCounter
}

// ResetAssemblyNumbering resets the counter to the highest number in use.
func (c *Core) ResetAssemblyNumbering() {
	max := 0
	for _, a := range c.Assemblies {
		if a.Number > max {
			max = a.Number
		}
	}
	c.assemblyCounter = max
}

// Reactor is the top-level model handed to the orchestrator.
type Reactor struct {
	CaseTitle string `yaml:"caseTitle"`
	Cycle     int    `yaml:"cycle"`
	TimeNode  int    `yaml:"timeNode"`

	// CycleLengthDays is the current cycle's length.
	CycleLengthDays float64 `yaml:"cycleLengthDays,omitempty"`

	// StepLengthsDays holds, per cycle, the burn step lengths in days.
	StepLengthsDays [][]float64 `yaml:"stepLengthsDays,omitempty"`

	Core *Core `yaml:"core"`
}

// DaysIntoCycle sums the completed step lengths of the current cycle.
func (r *Reactor) DaysIntoCycle() float64 {
	if r.Cycle >= len(r.StepLengthsDays) {
		return 0
	}
	steps := r.StepLengthsDays[r.Cycle]
	n := r.TimeNode
	if n > len(steps) {
		n = len(steps)
	}
	var days float64
	for _, d := range steps[:n] {
		days += d
	}
	return days
}

// ResolveFlags populates Flags from the string type lists after a load or on
// a hand-built model.
func (r *Reactor) ResolveFlags() {
	for _, a := range r.Core.Assemblies {
		if len(a.Types) > 0 {
			a.Flags = FlagsFromStrings(a.Types)
		}
		for _, b := range a.Blocks {
			if len(b.Types) > 0 {
				b.Flags = FlagsFromStrings(b.Types)
			}
		}
	}
}
