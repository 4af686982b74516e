// Package report collects a typed summary snapshot of a completed flux
// evaluation for downstream tooling: one record per run with the eigenvalue,
// the core dose summaries, and the per-assembly aggregates.
package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/corephysics/globalflux/pkg/core"
)

// Summary is the flattened result record of one evaluation.
type Summary struct {
	Label    string `yaml:"label"`
	Cycle    int    `yaml:"cycle"`
	TimeNode int    `yaml:"timeNode"`

	Keff    float64 `yaml:"keff"`
	RxSwing float64 `yaml:"rxSwing,omitempty"`

	MaxFlux         float64 `yaml:"maxFlux,omitempty"`
	MaxPowerDensity float64 `yaml:"maxPowerDensity,omitempty"`
	MaxPercentBu    float64 `yaml:"maxPercentBu,omitempty"`

	MaxDpa                  float64 `yaml:"maxDpa,omitempty"`
	MaxGridDpa              float64 `yaml:"maxGridDpa,omitempty"`
	MaxDetailedDpaThisCycle float64 `yaml:"maxDetailedDpaThisCycle,omitempty"`
	DpaFullWidthHalfMax     float64 `yaml:"dpaFullWidthHalfMax,omitempty"`
	PeakGridDpaAt60Years    float64 `yaml:"peakGridDpaAt60Years,omitempty"`

	LoadPadDpaPeak         float64 `yaml:"loadPadDpaPeak,omitempty"`
	LoadPadDpaPeakAssembly string  `yaml:"loadPadDpaPeakAssembly,omitempty"`

	Assemblies []AssemblySummary `yaml:"assemblies,omitempty"`
}

// AssemblySummary carries the per-assembly aggregates worth reporting.
type AssemblySummary struct {
	Name         string  `yaml:"name"`
	Number       int     `yaml:"number"`
	KInf         float64 `yaml:"kInf,omitempty"`
	MaxDpaPeak   float64 `yaml:"maxDpaPeak,omitempty"`
	MaxPercentBu float64 `yaml:"maxPercentBu,omitempty"`
	TimeToLimit  float64 `yaml:"timeToLimit,omitempty"`
}

// Collect builds the summary for a solved model.
func Collect(r *core.Reactor, label string) *Summary {
	cp := r.Core.Params
	s := &Summary{
		Label:    label,
		Cycle:    r.Cycle,
		TimeNode: r.TimeNode,

		Keff:    cp.Keff,
		RxSwing: cp.RxSwing,

		MaxFlux:         cp.MaxFlux,
		MaxPowerDensity: cp.MaxPowerDensity,
		MaxPercentBu:    cp.MaxPercentBu,

		MaxDpa:                  cp.MaxDpa,
		MaxGridDpa:              cp.MaxGridDpa,
		MaxDetailedDpaThisCycle: cp.MaxDetailedDpaThisCycle,
		DpaFullWidthHalfMax:     cp.DpaFullWidthHalfMax,
		PeakGridDpaAt60Years:    cp.PeakGridDpaAt60Years,

		LoadPadDpaPeak:         cp.LoadPadDpaPeak,
		LoadPadDpaPeakAssembly: cp.LoadPadDpaPeakAssembly,
	}
	for _, a := range r.Core.AssembliesWith(core.FlagFuel) {
		s.Assemblies = append(s.Assemblies, AssemblySummary{
			Name:         a.Name,
			Number:       a.Number,
			KInf:         a.Params.KInf,
			MaxDpaPeak:   a.Params.MaxDpaPeak,
			MaxPercentBu: a.Params.MaxPercentBu,
			TimeToLimit:  a.Params.TimeToLimit,
		})
	}
	return s
}

// WriteYAML writes the summary to path.
func (s *Summary) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run summary: %w", err)
	}
	return nil
}
