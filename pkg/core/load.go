package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadModel reads a reactor model snapshot from a YAML file.
func LoadModel(path string) (*Reactor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	var r Reactor
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("parsing model file %s: %w", path, err)
	}
	if r.Core == nil {
		return nil, fmt.Errorf("model file %s has no core", path)
	}
	if err := r.Core.Symmetry.Validate(); err != nil {
		return nil, fmt.Errorf("model file %s: %w", path, err)
	}
	r.ResolveFlags()
	r.Core.ResetAssemblyNumbering()
	return &r, nil
}
