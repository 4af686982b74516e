// Package config provides settings loading and the immutable Options record
// handed to the flux evaluation orchestrator.
//
// Settings is the user-facing schema read from a YAML file with environment
// overrides. Options is assembled from Settings plus the model's geometry and
// symmetry descriptors and is never mutated after handoff.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/corephysics/globalflux/pkg/core"
)

// Neutronics calculation types.
const (
	NeutronicsReal    = "real"
	NeutronicsAdjoint = "adjoint"
	NeutronicsBoth    = "both"
)

// Settings is the user-facing configuration schema.
type Settings struct {
	CaseTitle string `mapstructure:"caseTitle"`

	NCycles      int `mapstructure:"nCycles"`
	MaxBurnSteps int `mapstructure:"maxBurnSteps"`

	NeutronicsKernel string `mapstructure:"neutronicsKernel"`
	NeutronicsType   string `mapstructure:"neutronicsType"`
	XsKernel         string `mapstructure:"xsKernel"`

	EigenProb          bool `mapstructure:"eigenProb"`
	IncludeFixedSource bool `mapstructure:"includeFixedSource"`
	Photons            bool `mapstructure:"photons"`
	RestartNeutronics  bool `mapstructure:"restartNeutronics"`

	EpsEigenvalue         float64 `mapstructure:"epsEigenvalue"`
	EpsFissionSourceAvg   float64 `mapstructure:"epsFissionSourceAvg"`
	EpsFissionSourcePoint float64 `mapstructure:"epsFissionSourcePoint"`

	DetailedAxialExpansion bool     `mapstructure:"detailedAxialExpansion"`
	NonUniformAssemFlags   []string `mapstructure:"nonUniformAssemFlags"`
	Boundaries             string   `mapstructure:"boundaries"`

	Power               float64 `mapstructure:"power"` // W
	BurnupPeakingFactor float64 `mapstructure:"burnupPeakingFactor"`

	// Dose settings; zero values mean unconfigured.
	DpaXsSet           string  `mapstructure:"dpaXsSet"`
	GridPlateDpaXsSet  string  `mapstructure:"gridPlateDpaXsSet"`
	DpaPerFluence      float64 `mapstructure:"dpaPerFluence"`
	AclpDoseLimit      float64 `mapstructure:"aclpDoseLimit"`
	StructuralDpaLimit float64 `mapstructure:"structuralDpaLimit"`
	LoadPadElevation   float64 `mapstructure:"loadPadElevation"`
	LoadPadLength      float64 `mapstructure:"loadPadLength"`

	ParamsToScaleSubset []string `mapstructure:"paramsToScaleSubset"`
}

// LoadSettings reads settings from a YAML file. Environment variables with the
// GLOBALFLUX_ prefix override file values.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("GLOBALFLUX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees environment values for keys viper knows about
	for _, key := range []string{
		"caseTitle", "nCycles", "maxBurnSteps",
		"neutronicsKernel", "neutronicsType", "xsKernel",
		"eigenProb", "includeFixedSource", "photons", "restartNeutronics",
		"epsEigenvalue", "epsFissionSourceAvg", "epsFissionSourcePoint",
		"detailedAxialExpansion", "nonUniformAssemFlags", "boundaries",
		"power", "burnupPeakingFactor",
		"dpaXsSet", "gridPlateDpaXsSet", "dpaPerFluence",
		"aclpDoseLimit", "structuralDpaLimit", "loadPadElevation", "loadPadLength",
		"paramsToScaleSubset",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding settings key %s: %w", key, err)
		}
	}

	v.SetDefault("neutronicsType", NeutronicsReal)
	v.SetDefault("eigenProb", true)
	v.SetDefault("epsEigenvalue", 1e-7)
	v.SetDefault("epsFissionSourceAvg", 1e-5)
	v.SetDefault("epsFissionSourcePoint", 1e-4)
	v.SetDefault("nCycles", 1)
	v.SetDefault("maxBurnSteps", 1)
	v.SetDefault("dpaXsSet", "dpaHT9_33")
	v.SetDefault("paramsToScaleSubset", defaultParamsToScaleSubset)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var defaultParamsToScaleSubset = []string{
	"flux", "fluxPeak", "power", "rateCap", "rateFis",
	"rateProdN2n", "rateProdFis", "rateProdNet", "rateAbs",
}

// Validate checks for invalid settings values.
func (s *Settings) Validate() error {
	if s.CaseTitle == "" {
		return fmt.Errorf("caseTitle must be set")
	}
	if s.NeutronicsKernel == "" {
		return fmt.Errorf("neutronicsKernel must be set")
	}
	switch s.NeutronicsType {
	case NeutronicsReal, NeutronicsAdjoint, NeutronicsBoth:
	default:
		return fmt.Errorf("neutronicsType must be one of %q, %q, %q; got %q",
			NeutronicsReal, NeutronicsAdjoint, NeutronicsBoth, s.NeutronicsType)
	}
	if s.EpsEigenvalue <= 0 {
		return fmt.Errorf("epsEigenvalue must be > 0, got %g", s.EpsEigenvalue)
	}
	if s.Power < 0 {
		return fmt.Errorf("power must be >= 0, got %g", s.Power)
	}
	if s.LoadPadLength < 0 || s.LoadPadElevation < 0 {
		return fmt.Errorf("load pad elevation and length must be >= 0")
	}
	for _, name := range s.ParamsToScaleSubset {
		if _, err := core.ScalarParamByName(name); err != nil {
			return fmt.Errorf("paramsToScaleSubset: %w", err)
		}
	}
	return nil
}

// AdjointRequested reports whether an adjoint calculation was requested.
func (s *Settings) AdjointRequested() bool {
	return s.NeutronicsType == NeutronicsAdjoint || s.NeutronicsType == NeutronicsBoth
}

// RealRequested reports whether a real (forward) calculation was requested.
func (s *Settings) RealRequested() bool {
	return s.NeutronicsType == NeutronicsReal || s.NeutronicsType == NeutronicsBoth
}
