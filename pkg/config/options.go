package config

import (
	"fmt"

	"github.com/corephysics/globalflux/pkg/core"
)

// DoseOptions is the optional dose extension block. A nil DoseOptions on
// Options means dose accumulation is not configured for the run.
type DoseOptions struct {
	// DpaXsSet names the default multigroup dpa cross-section set.
	DpaXsSet string

	// GridPlateDpaXsSet, when set, takes precedence for grid plate blocks.
	GridPlateDpaXsSet string

	// DpaPerFluence is a legacy fluence-to-dpa conversion factor; when
	// nonzero a fluence-derived peak dpa is tracked alongside the
	// rate-based accumulation.
	DpaPerFluence float64

	// AclpDoseLimit is the dose limit in dpa used to position the
	// above-core load pad.
	AclpDoseLimit float64

	// StructuralDpaLimit, when nonzero, enables the time-to-limit
	// projection against structural dpa.
	StructuralDpaLimit float64

	// LoadPadElevation is the bottom of the ACLP above the grid plate, cm.
	LoadPadElevation float64

	// LoadPadLength is the axial length of the load pad, cm.
	LoadPadLength float64
}

// Options is the immutable per-run option record for a global flux solve.
// Build it once via NewOptions + FromSettings + FromModel and hand it to the
// orchestrator; never mutate it afterwards.
type Options struct {
	Label string

	// Problem type.
	Adjoint            bool
	Real               bool
	EigenvalueProblem  bool
	IncludeFixedSource bool
	Photons            bool

	// CalcReactionRatesOnMeshConversion controls the reaction-rate pass
	// after flux mapping; enabled by default.
	CalcReactionRatesOnMeshConversion bool

	// ApplyResultsToReactor commits computed parameters back onto the
	// caller's model during restore. When false the restore still runs but
	// discards the changes.
	ApplyResultsToReactor bool

	// Convergence.
	EpsEigenvalue         float64
	EpsFissionSourceAvg   float64
	EpsFissionSourcePoint float64

	// Geometry, populated from the model.
	GeomType   core.GeomType
	Symmetry   core.Symmetry
	Boundaries string

	// Transforms.
	DetailedAxialExpansion bool
	HasNonUniformAssems    bool

	// Kernel.
	KernelName string
	XsKernel   string
	IsRestart  bool

	// BurnupPeakingFactor, when nonzero, overrides derived peaking.
	BurnupPeakingFactor float64

	// ParamsToScaleSubset names the block parameters rescaled when undoing
	// the edge-assembly transform.
	ParamsToScaleSubset []string

	// Dose is the optional dose extension.
	Dose *DoseOptions
}

// NewOptions returns an Options with library defaults applied.
func NewOptions(label string) *Options {
	return &Options{
		Label:                             label,
		Real:                              true,
		EigenvalueProblem:                 true,
		CalcReactionRatesOnMeshConversion: true,
		ApplyResultsToReactor:             true,
	}
}

// FromSettings maps user settings onto the options record.
func (o *Options) FromSettings(s *Settings) {
	o.KernelName = s.NeutronicsKernel
	o.XsKernel = s.XsKernel
	o.IsRestart = s.RestartNeutronics
	o.Adjoint = s.AdjointRequested()
	o.Real = s.RealRequested()
	o.EigenvalueProblem = s.EigenProb
	o.IncludeFixedSource = s.IncludeFixedSource
	o.Photons = s.Photons
	o.EpsEigenvalue = s.EpsEigenvalue
	o.EpsFissionSourceAvg = s.EpsFissionSourceAvg
	o.EpsFissionSourcePoint = s.EpsFissionSourcePoint
	o.DetailedAxialExpansion = s.DetailedAxialExpansion
	o.HasNonUniformAssems = core.FlagsFromStrings(s.NonUniformAssemFlags) != 0
	o.Boundaries = s.Boundaries
	o.BurnupPeakingFactor = s.BurnupPeakingFactor
	o.ParamsToScaleSubset = append([]string(nil), s.ParamsToScaleSubset...)

	if s.DpaXsSet != "" || s.AclpDoseLimit > 0 || s.LoadPadLength > 0 {
		o.Dose = &DoseOptions{
			DpaXsSet:           s.DpaXsSet,
			GridPlateDpaXsSet:  s.GridPlateDpaXsSet,
			DpaPerFluence:      s.DpaPerFluence,
			AclpDoseLimit:      s.AclpDoseLimit,
			StructuralDpaLimit: s.StructuralDpaLimit,
			LoadPadElevation:   s.LoadPadElevation,
			LoadPadLength:      s.LoadPadLength,
		}
	}
}

// FromModel copies the geometry descriptors off the reactor model.
func (o *Options) FromModel(r *core.Reactor) {
	o.GeomType = r.Core.Geom
	o.Symmetry = r.Core.Symmetry
}

// WithApplyResults returns a copy with ApplyResultsToReactor set. Options are
// immutable after handoff, so variation goes through copies.
func (o *Options) WithApplyResults(apply bool) *Options {
	out := *o
	out.ApplyResultsToReactor = apply
	return &out
}

// Validate checks cross-field consistency before a run.
func (o *Options) Validate() error {
	if o.KernelName == "" {
		return fmt.Errorf("options: kernel name must be set")
	}
	if !o.Real && !o.Adjoint {
		return fmt.Errorf("options: at least one of real or adjoint must be requested")
	}
	if o.Dose != nil && o.Dose.LoadPadLength > 0 && o.Dose.LoadPadElevation <= 0 {
		return fmt.Errorf("options: load pad length set without a load pad elevation")
	}
	for _, name := range o.ParamsToScaleSubset {
		if _, err := core.ScalarParamByName(name); err != nil {
			return fmt.Errorf("options: %w", err)
		}
	}
	return nil
}
