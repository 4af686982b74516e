package solver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
)

// ExternalConfig describes a kernel reached through file exchange: the run
// options are serialized to an input file, the binary is executed in WorkDir,
// and flux plus eigenvalue are read back from its output file.
type ExternalConfig struct {
	// Kernel is the registry name, matched against Options.KernelName.
	Kernel string

	// Path is the kernel executable.
	Path string

	// WorkDir holds the exchange files; defaults to the process directory.
	WorkDir string
}

// RegisterExternal registers a file-exchange kernel under cfg.Kernel.
func RegisterExternal(cfg ExternalConfig) {
	Register(cfg.Kernel, func() (Solver, error) {
		if cfg.Path == "" {
			return nil, fmt.Errorf("external kernel %q: executable path not set", cfg.Kernel)
		}
		return &external{cfg: cfg}, nil
	})
}

type external struct {
	cfg ExternalConfig
}

func (e *external) Name() string { return e.cfg.Kernel }

// exchange file schemas. Blocks are identified by assembly number and axial
// index so the output maps back without relying on file ordering.
type externalInput struct {
	Label      string            `yaml:"label"`
	Geom       core.GeomType     `yaml:"geom"`
	Symmetry   core.Symmetry     `yaml:"symmetry"`
	Boundaries string            `yaml:"boundaries,omitempty"`
	Eigenvalue bool              `yaml:"eigenvalue"`
	Adjoint    bool              `yaml:"adjoint"`
	EpsEig     float64           `yaml:"epsEigenvalue"`
	EpsFSAvg   float64           `yaml:"epsFissionSourceAvg"`
	EpsFSPoint float64           `yaml:"epsFissionSourcePoint"`
	Blocks     []externalBlockIn `yaml:"blocks"`
}

type externalBlockIn struct {
	Assembly        int                `yaml:"assembly"`
	Index           int                `yaml:"index"`
	Height          float64            `yaml:"height"`
	Volume          float64            `yaml:"volume"`
	NumberDensities map[string]float64 `yaml:"numberDensities"`
}

type externalOutput struct {
	Keff   float64            `yaml:"keff"`
	Blocks []externalBlockOut `yaml:"blocks"`
}

type externalBlockOut struct {
	Assembly  int       `yaml:"assembly"`
	Index     int       `yaml:"index"`
	MgFlux    []float64 `yaml:"mgFlux"`
	AdjMgFlux []float64 `yaml:"adjMgFlux,omitempty"`
	Flux      float64   `yaml:"flux"`
	FluxPeak  float64   `yaml:"fluxPeak"`
	Power     float64   `yaml:"power,omitempty"`
}

func (e *external) Solve(ctx context.Context, r *core.Reactor, opts *config.Options) (Result, error) {
	inName := filepath.Join(e.cfg.WorkDir, opts.Label+".in.yaml")
	outName := filepath.Join(e.cfg.WorkDir, opts.Label+".out.yaml")
	stdName := filepath.Join(e.cfg.WorkDir, opts.Label+".stdout")

	if err := e.writeInput(inName, r, opts); err != nil {
		return nil, err
	}

	stdout, err := os.Create(stdName)
	if err != nil {
		return nil, fmt.Errorf("external kernel %q: %w", e.cfg.Kernel, err)
	}
	defer stdout.Close()

	cmd := exec.CommandContext(ctx, e.cfg.Path, inName, outName)
	cmd.Dir = e.cfg.WorkDir
	cmd.Stdout = stdout
	cmd.Stderr = stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("external kernel %q: %w (see %s)", e.cfg.Kernel, err, stdName)
	}

	return e.readOutput(outName, r)
}

func (e *external) writeInput(path string, r *core.Reactor, opts *config.Options) error {
	in := externalInput{
		Label:      opts.Label,
		Geom:       r.Core.Geom,
		Symmetry:   r.Core.Symmetry,
		Boundaries: opts.Boundaries,
		Eigenvalue: opts.EigenvalueProblem,
		Adjoint:    opts.Adjoint,
		EpsEig:     opts.EpsEigenvalue,
		EpsFSAvg:   opts.EpsFissionSourceAvg,
		EpsFSPoint: opts.EpsFissionSourcePoint,
	}
	for _, a := range r.Core.Assemblies {
		for i, b := range a.Blocks {
			in.Blocks = append(in.Blocks, externalBlockIn{
				Assembly:        a.Number,
				Index:           i,
				Height:          b.Height,
				Volume:          b.Volume,
				NumberDensities: b.NumberDensities,
			})
		}
	}
	data, err := yaml.Marshal(&in)
	if err != nil {
		return fmt.Errorf("external kernel %q: marshaling input: %w", e.cfg.Kernel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("external kernel %q: %w", e.cfg.Kernel, err)
	}
	return nil
}

func (e *external) readOutput(path string, r *core.Reactor) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("external kernel %q: %w", e.cfg.Kernel, err)
	}
	var out externalOutput
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("external kernel %q: unmarshaling output: %w", e.cfg.Kernel, err)
	}

	byNumber := map[int]*core.Assembly{}
	for _, a := range r.Core.Assemblies {
		byNumber[a.Number] = a
	}
	for _, ob := range out.Blocks {
		a, ok := byNumber[ob.Assembly]
		if !ok || ob.Index < 0 || ob.Index >= len(a.Blocks) {
			return nil, fmt.Errorf("external kernel %q: output names unknown block a%d/%d",
				e.cfg.Kernel, ob.Assembly, ob.Index)
		}
		p := &a.Blocks[ob.Index].Params
		p.MgFlux = ob.MgFlux
		if len(ob.AdjMgFlux) > 0 {
			p.AdjMgFlux = ob.AdjMgFlux
		}
		p.Flux = ob.Flux
		p.FluxPeak = ob.FluxPeak
		if ob.Power > 0 {
			p.Power = ob.Power
		}
	}
	return KeffResult(out.Keff), nil
}
