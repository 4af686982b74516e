package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corephysics/globalflux/pkg/core"
)

func writeSettings(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalSettings = `
caseTitle: fft
neutronicsKernel: FD-DIF3D
power: 3.0e8
`

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, minimalSettings))
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.NeutronicsType != NeutronicsReal {
		t.Errorf("neutronicsType = %q, want real", s.NeutronicsType)
	}
	if !s.EigenProb {
		t.Error("eigenProb default should be true")
	}
	if s.EpsEigenvalue != 1e-7 {
		t.Errorf("epsEigenvalue = %g, want 1e-7", s.EpsEigenvalue)
	}
	if s.DpaXsSet != "dpaHT9_33" {
		t.Errorf("dpaXsSet = %q, want dpaHT9_33", s.DpaXsSet)
	}
	if len(s.ParamsToScaleSubset) == 0 {
		t.Error("paramsToScaleSubset default missing")
	}
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv("GLOBALFLUX_XSKERNEL", "MC2v3")
	s, err := LoadSettings(writeSettings(t, minimalSettings))
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.XsKernel != "MC2v3" {
		t.Errorf("xsKernel = %q, want env override MC2v3", s.XsKernel)
	}
}

func TestSettingsValidation(t *testing.T) {
	base := func() *Settings {
		return &Settings{
			CaseTitle:        "fft",
			NeutronicsKernel: "FD-DIF3D",
			NeutronicsType:   NeutronicsReal,
			EpsEigenvalue:    1e-7,
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Settings) {}},
		{name: "missing case title", mutate: func(s *Settings) { s.CaseTitle = "" }, wantErr: true},
		{name: "missing kernel", mutate: func(s *Settings) { s.NeutronicsKernel = "" }, wantErr: true},
		{name: "bad neutronics type", mutate: func(s *Settings) { s.NeutronicsType = "imaginary" }, wantErr: true},
		{name: "both type", mutate: func(s *Settings) { s.NeutronicsType = NeutronicsBoth }},
		{name: "bad eigenvalue eps", mutate: func(s *Settings) { s.EpsEigenvalue = 0 }, wantErr: true},
		{name: "negative power", mutate: func(s *Settings) { s.Power = -1 }, wantErr: true},
		{name: "unknown scale param", mutate: func(s *Settings) { s.ParamsToScaleSubset = []string{"warpFactor"} }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNeutronicsTypeRequests(t *testing.T) {
	tests := []struct {
		typ     string
		real    bool
		adjoint bool
	}{
		{typ: NeutronicsReal, real: true},
		{typ: NeutronicsAdjoint, adjoint: true},
		{typ: NeutronicsBoth, real: true, adjoint: true},
	}
	for _, tt := range tests {
		s := &Settings{NeutronicsType: tt.typ}
		if s.RealRequested() != tt.real || s.AdjointRequested() != tt.adjoint {
			t.Errorf("%q: real=%v adjoint=%v, want %v/%v",
				tt.typ, s.RealRequested(), s.AdjointRequested(), tt.real, tt.adjoint)
		}
	}
}

func TestOptionsFromSettings(t *testing.T) {
	s := &Settings{
		CaseTitle:           "fft",
		NeutronicsKernel:    "FD-DIF3D",
		NeutronicsType:      NeutronicsBoth,
		EigenProb:           true,
		EpsEigenvalue:       1e-7,
		DpaXsSet:            "dpaHT9_33",
		AclpDoseLimit:       80,
		BurnupPeakingFactor: 1.3,
		ParamsToScaleSubset: []string{"flux"},
	}
	opts := NewOptions("fft-flux-c0n0")
	opts.FromSettings(s)

	if opts.KernelName != "FD-DIF3D" || !opts.Adjoint || !opts.Real {
		t.Errorf("kernel/problem mapping wrong: %+v", opts)
	}
	if opts.Dose == nil || opts.Dose.DpaXsSet != "dpaHT9_33" || opts.Dose.AclpDoseLimit != 80 {
		t.Errorf("dose options not mapped: %+v", opts.Dose)
	}
	if opts.BurnupPeakingFactor != 1.3 {
		t.Errorf("burnupPeakingFactor = %g", opts.BurnupPeakingFactor)
	}
}

func TestOptionsFromModel(t *testing.T) {
	r := &core.Reactor{Core: &core.Core{
		Geom:     core.GeomHex,
		Symmetry: core.Symmetry{Domain: core.ThirdCore, Boundary: core.BoundaryPeriodic},
	}}
	opts := NewOptions("x")
	opts.FromModel(r)
	if opts.GeomType != core.GeomHex || opts.Symmetry.Domain != core.ThirdCore {
		t.Errorf("geometry not copied: %+v", opts)
	}
}

func TestWithApplyResultsIsACopy(t *testing.T) {
	opts := NewOptions("x")
	off := opts.WithApplyResults(false)
	if !opts.ApplyResultsToReactor {
		t.Error("original options mutated")
	}
	if off.ApplyResultsToReactor {
		t.Error("copy did not flip the flag")
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		cycle, node, iter int
		want              string
	}{
		{cycle: 0, node: 2, iter: -1, want: "fft-flux-c0n2"},
		{cycle: 1, node: 3, iter: 4, want: "fft-flux-c1n3i4"},
		{cycle: 0, node: 0, iter: 0, want: "fft-flux-c0n0i0"},
	}
	for _, tt := range tests {
		if got := Label("fft", tt.cycle, tt.node, tt.iter); got != tt.want {
			t.Errorf("Label(%d,%d,%d) = %q, want %q", tt.cycle, tt.node, tt.iter, got, tt.want)
		}
	}
}

func TestIOFileNames(t *testing.T) {
	tests := []struct {
		name         string
		nCycles      int
		maxBurnSteps int
		cycle, node  int
		iter         int
		wantIn       string
	}{
		{
			name: "small case", nCycles: 3, maxBurnSteps: 5,
			cycle: 1, node: 2, iter: -1,
			wantIn: "fft001_2.flux.inp",
		},
		{
			name: "many cycles widen the cycle field", nCycles: 1500, maxBurnSteps: 5,
			cycle: 1, node: 2, iter: -1,
			wantIn: "fft0001_2.flux.inp",
		},
		{
			name: "many burn steps widen the node field", nCycles: 3, maxBurnSteps: 20,
			cycle: 1, node: 2, iter: -1,
			wantIn: "fft001_002.flux.inp",
		},
		{
			name: "coupled iteration suffix", nCycles: 3, maxBurnSteps: 5,
			cycle: 1, node: 2, iter: 3,
			wantIn: "fft001_2_003.flux.inp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Settings{CaseTitle: "fft", NCycles: tt.nCycles, MaxBurnSteps: tt.maxBurnSteps}
			in, out, std := IOFileNames(s, tt.cycle, tt.node, tt.iter)
			if in != tt.wantIn {
				t.Errorf("inName = %q, want %q", in, tt.wantIn)
			}
			if out != tt.wantIn[:len(tt.wantIn)-4]+".out" {
				t.Errorf("outName = %q inconsistent with inName %q", out, in)
			}
			if std != tt.wantIn[:len(tt.wantIn)-4]+".stdout" {
				t.Errorf("stdName = %q inconsistent with inName %q", std, in)
			}
		})
	}
}
