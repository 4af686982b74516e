// Package xslib is the cross-section data boundary: lookup of per-nuclide
// microscopic cross sections and of named multigroup dpa cross-section sets.
// The physics engines consume the Library interface; FileLibrary is the YAML
// file-backed implementation.
package xslib

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Reaction labels whose microscopic cross sections contribute to absorption.
// Fission is included; everything else counts as capture.
var AbsorptionReactions = []string{"nGamma", "fission", "nalph", "np", "nd", "nt"}

var (
	// ErrUnknownNuclide indicates the library has no entry for a nuclide.
	ErrUnknownNuclide = errors.New("nuclide not in cross-section library")

	// ErrUnknownDpaXsSet indicates a named dpa cross-section set is not
	// configured. Callers treat this as a fatal configuration error.
	ErrUnknownDpaXsSet = errors.New("dpa cross-section set does not exist")
)

// Nuclide holds the multigroup microscopic data for one nuclide variant.
type Nuclide struct {
	// Micros maps reaction label to per-group cross sections in barns.
	Micros map[string][]float64 `yaml:"micros"`

	// N2n is the reaction-based (n,2n) cross section per group in barns.
	N2n []float64 `yaml:"n2n,omitempty"`

	// NeutronsPerFission is nu-bar per group.
	NeutronsPerFission []float64 `yaml:"neutronsPerFission,omitempty"`
}

// Library provides nuclide lookup for reaction-rate calculations.
type Library interface {
	// Nuclide returns the microscopic data for a nuclide name and cross
	// section suffix.
	Nuclide(name, suffix string) (*Nuclide, error)
}

// DpaSets maps set name to a multigroup dpa cross section in barns.
type DpaSets map[string][]float64

// Get returns the named set or ErrUnknownDpaXsSet.
func (s DpaSets) Get(name string) ([]float64, error) {
	xs, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDpaXsSet, name)
	}
	return xs, nil
}

// FileLibrary is a Library loaded from a YAML file.
type FileLibrary struct {
	// Nuclides maps "name-suffix" (or plain "name") to data.
	Nuclides map[string]*Nuclide `yaml:"nuclides"`

	// DpaXs holds the named dpa cross-section sets shipped with the library.
	DpaXs DpaSets `yaml:"dpaXs,omitempty"`
}

// Load reads a FileLibrary from a YAML file.
func Load(path string) (*FileLibrary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cross-section library: %w", err)
	}
	var lib FileLibrary
	if err := yaml.Unmarshal(raw, &lib); err != nil {
		return nil, fmt.Errorf("parsing cross-section library %s: %w", path, err)
	}
	return &lib, nil
}

// Nuclide implements Library. Suffix-qualified entries take precedence over
// plain names.
func (l *FileLibrary) Nuclide(name, suffix string) (*Nuclide, error) {
	if suffix != "" {
		if n, ok := l.Nuclides[name+"-"+suffix]; ok {
			return n, nil
		}
	}
	if n, ok := l.Nuclides[name]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: %q (suffix %q)", ErrUnknownNuclide, name, suffix)
}
