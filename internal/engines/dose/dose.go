// Package dose implements the dose and fluence accumulation engine: dpa-rate
// refresh after a flux solve, cumulative fluence/dpa/burnup accumulation on
// depletion-step boundaries, and the derived cycle-level summaries (half-max
// dose width, above-core load pad positioning, load pad dose).
package dose

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/corephysics/globalflux/internal/engines/rates"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
	"github.com/corephysics/globalflux/pkg/xslib"
)

// Mapper maps solved flux state into dose quantities. It is cheap to build
// and carries no history of its own: all cumulative state lives on the model.
type Mapper struct {
	log  logr.Logger
	opts *config.Options
	sets xslib.DpaSets
}

// New builds a dose mapper. Dose options must be configured on opts.
func New(log logr.Logger, opts *config.Options, sets xslib.DpaSets) (*Mapper, error) {
	if opts == nil || opts.Dose == nil {
		return nil, fmt.Errorf("dose engine requires dose options")
	}
	if _, err := sets.Get(opts.Dose.DpaXsSet); err != nil {
		return nil, err
	}
	if opts.Dose.GridPlateDpaXsSet != "" {
		if _, err := sets.Get(opts.Dose.GridPlateDpaXsSet); err != nil {
			return nil, err
		}
	}
	return &Mapper{log: log, opts: opts, sets: sets}, nil
}

// DpaXsFor selects the dpa cross-section set for a block: the grid-plate
// set when one is configured and the block is a grid plate, else the default
// set. A missing named set is a configuration error.
func (m *Mapper) DpaXsFor(b *core.Block) ([]float64, error) {
	name := m.opts.Dose.DpaXsSet
	if m.opts.Dose.GridPlateDpaXsSet != "" && b.HasFlags(core.FlagGridPlate) {
		name = m.opts.Dose.GridPlateDpaXsSet
	}
	return m.sets.Get(name)
}

// BurnupPeakingFactor returns the peak/avg factor applied to burnup and dpa
// for a block. A user-supplied constant wins; else flux peaking is derived
// from the block's peak and average flux; else 0.0, an explicit signal that
// no peaking information exists rather than a silent 1.0.
func (m *Mapper) BurnupPeakingFactor(b *core.Block) float64 {
	if m.opts.BurnupPeakingFactor != 0 {
		return m.opts.BurnupPeakingFactor
	}
	if b.Params.FluxPeak != 0 && b.Params.Flux != 0 {
		return b.Params.FluxPeak / b.Params.Flux
	}
	// no peak available, possibly a finite difference model
	return 0.0
}

// UpdateDpaRate refreshes the instantaneous dpa rate and peak dpa rate on
// each block, then the core's peak-grid-dpa-at-60-years projection and the
// running dpa maxima.
func (m *Mapper) UpdateDpaRate(c *core.Core, blocks []*core.Block) error {
	if blocks == nil {
		blocks = c.Blocks()
	}
	for _, b := range blocks {
		xs, err := m.DpaXsFor(b)
		if err != nil {
			return err
		}
		dpaPerSecond, err := rates.ComputeDpaRate(m.log, b.Params.MgFlux, xs)
		if err != nil {
			return fmt.Errorf("block %s: %w", b.Name, err)
		}
		b.Params.DetailedDpaRate = dpaPerSecond
		b.Params.DetailedDpaPeakRate = dpaPerSecond * m.BurnupPeakingFactor(b)
	}

	peakRate := c.MaxBlockValue(core.FlagGridPlate,
		func(p *core.BlockParams) float64 { return p.DetailedDpaPeakRate })
	c.Params.PeakGridDpaAt60Years = peakRate * 60.0 * core.SecondsPerYear

	m.UpdateMaxDpaParams(c)
	return nil
}

// UpdateMaxDpaParams refreshes the peak-dpa summaries. Only fuel is
// considered for the core maximum because control and shield blocks are not
// always reset between cycles.
func (m *Mapper) UpdateMaxDpaParams(c *core.Core) {
	maxDpa := c.MaxBlockValue(core.FlagFuel,
		func(p *core.BlockParams) float64 { return p.DetailedDpaPeak })
	c.Params.MaxDetailedDpaPeak = maxDpa
	c.Params.MaxDpa = maxDpa

	c.Params.MaxGridDpa = c.MaxBlockValue(core.FlagGridPlate,
		func(p *core.BlockParams) float64 { return p.DetailedDpaPeak })
}
