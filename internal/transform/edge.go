package transform

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
)

// EdgeAssemblyStep inserts duplicates of the symmetry-edge assemblies, which
// finite-difference kernels need on periodic third-core hex models. The model
// is mutated in place.
type EdgeAssemblyStep struct {
	log   logr.Logger
	pairs []edgePair
}

type edgePair struct {
	source *core.Assembly
	added  *core.Assembly
}

// Kind implements Step.
func (s *EdgeAssemblyStep) Kind() Kind { return KindEdgeAssemblies }

// Needed implements Step: finite-difference kernel on a periodic third-core
// hex model.
func (s *EdgeAssemblyStep) Needed(opts *config.Options) bool {
	return strings.Contains(opts.KernelName, "FD") &&
		opts.Symmetry.Domain == core.ThirdCore &&
		opts.Symmetry.Boundary == core.BoundaryPeriodic &&
		opts.GeomType == core.GeomHex
}

// Apply implements Step: duplicates every symmetry-edge assembly onto the
// far boundary, numbering the duplicates from the model's counter.
func (s *EdgeAssemblyStep) Apply(r *core.Reactor) (*core.Reactor, error) {
	c := r.Core
	for _, a := range c.Assemblies {
		if !a.SymmetryEdge || a.AddedByTransform() {
			continue
		}
		dup := a.Clone()
		dup.Number = c.NextAssemblyNumber()
		dup.Name = fmt.Sprintf("%s-edge%d", a.Name, dup.Number)
		dup.MarkAddedByTransform()
		c.Assemblies = append(c.Assemblies, dup)
		s.pairs = append(s.pairs, edgePair{source: a, added: dup})
	}
	s.log.V(logging.DEBUG).Info("added edge assemblies", "count", len(s.pairs))
	return r, nil
}

// Undo implements Step: rescale the symmetry-dependent parameters on the
// split edge assemblies, remove the inserted duplicates, and reset the
// model's assembly numbering counter.
func (s *EdgeAssemblyStep) Undo(r *core.Reactor, opts *config.Options) (*core.Reactor, error) {
	if err := s.scaleParamsRelatedToSymmetry(opts.ParamsToScaleSubset); err != nil {
		return r, err
	}
	c := r.Core
	kept := c.Assemblies[:0]
	removed := 0
	for _, a := range c.Assemblies {
		if a.AddedByTransform() {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	c.Assemblies = kept
	c.ResetAssemblyNumbering()
	s.pairs = nil
	s.log.V(logging.DEBUG).Info("removed edge assemblies", "count", removed)
	return r, nil
}

// scaleParamsRelatedToSymmetry merges each split edge pair back into the
// in-domain assembly: the two half-assembly solutions are averaged for every
// parameter in the caller-supplied subset.
func (s *EdgeAssemblyStep) scaleParamsRelatedToSymmetry(paramNames []string) error {
	for _, name := range paramNames {
		acc, err := core.ScalarParamByName(name)
		if err != nil {
			return fmt.Errorf("symmetry rescale: %w", err)
		}
		for _, pair := range s.pairs {
			for i, sb := range pair.source.Blocks {
				if i >= len(pair.added.Blocks) {
					break
				}
				ab := pair.added.Blocks[i]
				*acc(&sb.Params) = (*acc(&sb.Params) + *acc(&ab.Params)) / 2.0
			}
		}
	}
	return nil
}
