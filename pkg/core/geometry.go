package core

import "fmt"

// GeomType is the core geometry layout.
type GeomType string

const (
	GeomHex       GeomType = "hex"
	GeomCartesian GeomType = "cartesian"
	GeomRZ        GeomType = "rz"
	GeomRZT       GeomType = "rzt"
)

// DomainType is the symmetry domain a model represents.
type DomainType string

const (
	FullCore    DomainType = "full"
	ThirdCore   DomainType = "third"
	QuarterCore DomainType = "quarter"
)

// BoundaryType is the condition applied on the symmetry boundary.
type BoundaryType string

const (
	BoundaryPeriodic   BoundaryType = "periodic"
	BoundaryReflective BoundaryType = "reflective"
)

// Symmetry describes the modeled fraction of the physical core.
type Symmetry struct {
	Domain   DomainType   `yaml:"domain"`
	Boundary BoundaryType `yaml:"boundary"`
}

// Fraction returns the modeled fraction of the full core.
func (s Symmetry) Fraction() float64 {
	switch s.Domain {
	case ThirdCore:
		return 1.0 / 3.0
	case QuarterCore:
		return 1.0 / 4.0
	default:
		return 1.0
	}
}

// PowerMultiplier is the factor between modeled power and full-core power.
func (s Symmetry) PowerMultiplier() float64 {
	return 1.0 / s.Fraction()
}

// Validate checks the symmetry descriptor for known values.
func (s Symmetry) Validate() error {
	switch s.Domain {
	case FullCore, ThirdCore, QuarterCore:
	default:
		return fmt.Errorf("unknown symmetry domain %q", s.Domain)
	}
	switch s.Boundary {
	case BoundaryPeriodic, BoundaryReflective, "":
	default:
		return fmt.Errorf("unknown symmetry boundary %q", s.Boundary)
	}
	return nil
}

// Flags classify blocks and assemblies by function.
type Flags uint32

const (
	FlagFuel Flags = 1 << iota
	FlagGridPlate
	FlagControl
	FlagReflector
	FlagShield
	FlagPlenum
	FlagDuct
)

var flagNames = map[string]Flags{
	"fuel":      FlagFuel,
	"gridPlate": FlagGridPlate,
	"control":   FlagControl,
	"reflector": FlagReflector,
	"shield":    FlagShield,
	"plenum":    FlagPlenum,
	"duct":      FlagDuct,
}

// FlagsFromStrings parses flag names, ignoring unknown entries.
func FlagsFromStrings(names []string) Flags {
	var f Flags
	for _, n := range names {
		f |= flagNames[n]
	}
	return f
}

// HasAny reports whether any of the given flag bits are set.
func (f Flags) HasAny(mask Flags) bool {
	return f&mask != 0
}
