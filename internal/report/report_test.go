package report

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/corephysics/globalflux/pkg/core"
)

func TestCollect(t *testing.T) {
	r := &core.Reactor{
		CaseTitle: "sum",
		Cycle:     1,
		TimeNode:  2,
		Core: &core.Core{
			Symmetry: core.Symmetry{Domain: core.FullCore},
			Assemblies: []*core.Assembly{
				{
					Name: "A1", Number: 1, Flags: core.FlagFuel,
					Params: core.AssemblyParams{KInf: 1.2, MaxDpaPeak: 30},
				},
				{
					Name: "R1", Number: 2, Flags: core.FlagReflector,
				},
			},
		},
	}
	r.Core.Params.Keff = 1.01
	r.Core.Params.MaxDpa = 30

	s := Collect(r, "sum-flux-c1n2")

	if s.Keff != 1.01 || s.Cycle != 1 || s.TimeNode != 2 {
		t.Errorf("header = %+v", s)
	}
	if len(s.Assemblies) != 1 {
		t.Fatalf("got %d assembly summaries, want only the fuel assembly", len(s.Assemblies))
	}
	if s.Assemblies[0].KInf != 1.2 {
		t.Errorf("kInf = %g", s.Assemblies[0].KInf)
	}
}

func TestWriteYAML(t *testing.T) {
	s := &Summary{Label: "sum-flux-c0n0", Keff: 1.003}
	path := filepath.Join(t.TempDir(), "summary.yaml")
	if err := s.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Summary
	if err := yaml.Unmarshal(raw, &back); err != nil {
		t.Fatalf("written summary not parseable: %v", err)
	}
	if back.Keff != 1.003 {
		t.Errorf("round-tripped keff = %g", back.Keff)
	}
}
