package e2e

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corephysics/globalflux/internal/engines/dose"
	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/internal/orchestrator"
	"github.com/corephysics/globalflux/internal/report"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
	"github.com/corephysics/globalflux/pkg/solver"
	"github.com/corephysics/globalflux/pkg/solver/solvertest"
	"github.com/corephysics/globalflux/pkg/xslib"
)

const settingsDoc = `
caseTitle: e2e
neutronicsKernel: FD-DIF3D
dpaXsSet: dpaHT9_33
burnupPeakingFactor: 1.2
`

const modelDoc = `
caseTitle: e2e
core:
  name: e2e core
  geom: hex
  symmetry:
    domain: third
    boundary: periodic
  assemblies:
    - name: A1
      number: 1
      types: [fuel]
      blocks:
        - name: A1 grid
          types: [gridPlate]
          height: 30
        - name: A1 fuel
          types: [fuel]
          height: 100
          numberDensities:
            U235: 0.002
    - name: A2
      number: 2
      types: [fuel]
      symmetryEdge: true
      blocks:
        - name: A2 grid
          types: [gridPlate]
          height: 30
        - name: A2 fuel
          types: [fuel]
          height: 100
          numberDensities:
            U235: 0.002
`

const xsDoc = `
nuclides:
  U235:
    micros:
      fission: [2.0, 50.0]
      nGamma: [0.5, 1.0]
    neutronsPerFission: [2.6, 2.4]
dpaXs:
  dpaHT9_33: [100.0, 200.0]
`

var _ = Describe("full evaluation through file-loaded inputs", func() {
	var (
		settings *config.Settings
		model    *core.Reactor
		lib      *xslib.FileLibrary
		opts     *config.Options
	)

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		write := func(name, doc string) string {
			path := filepath.Join(dir, name)
			Expect(os.WriteFile(path, []byte(doc), 0o644)).To(Succeed())
			return path
		}

		var err error
		settings, err = config.LoadSettings(write("settings.yaml", settingsDoc))
		Expect(err).NotTo(HaveOccurred())
		model, err = core.LoadModel(write("model.yaml", modelDoc))
		Expect(err).NotTo(HaveOccurred())
		lib, err = xslib.Load(write("xslib.yaml", xsDoc))
		Expect(err).NotTo(HaveOccurred())

		opts = config.NewOptions(config.Label(settings.CaseTitle, 0, 0, -1))
		opts.FromSettings(settings)
		opts.FromModel(model)
		Expect(opts.Validate()).To(Succeed())
	})

	It("solves, maps rates and dpa, and restores the model shape", func() {
		doser, err := dose.New(logging.NewTest(), opts, lib.DpaXs)
		Expect(err).NotTo(HaveOccurred())

		exec, err := orchestrator.New(orchestrator.Config{
			Log:     logging.NewTest(),
			Options: opts,
			Model:   model,
			Solver:  &solvertest.Fake{KernelName: "FD-DIF3D", KeffValue: 1.01},
			Lib:     lib,
			Doser:   doser,
		})
		Expect(err).NotTo(HaveOccurred())

		out, err := exec.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Keff()).To(Equal(1.01))

		// edge assemblies were added for the FD kernel and removed again
		Expect(model.Core.Assemblies).To(HaveLen(2))
		Expect(model.Core.Params.Keff).To(Equal(1.01))

		for _, b := range model.Core.Blocks() {
			Expect(b.Params.MgFlux).NotTo(BeEmpty())
			Expect(b.Params.DetailedDpaRate).To(BeNumerically(">", 0))
		}
		fuel := model.Core.Assemblies[0].Blocks[1]
		Expect(fuel.Params.RateFis).To(BeNumerically(">", 0))
		Expect(fuel.Params.RateAbs).To(BeNumerically("~", fuel.Params.RateCap+fuel.Params.RateFis, 1e-20))

		// dpa rate from the fake's flux and the library's dpa set:
		// (1e14*100 + 2e14*200) * 1e-24
		Expect(fuel.Params.DetailedDpaRate).To(BeNumerically("~", 5e-8, 1e-19))
		Expect(fuel.Params.DetailedDpaPeakRate).To(BeNumerically("~", 6e-8, 1e-19))
	})

	It("accumulates dose over a depletion step and reports a summary", func() {
		doser, err := dose.New(logging.NewTest(), opts, lib.DpaXs)
		Expect(err).NotTo(HaveOccurred())

		exec, err := orchestrator.New(orchestrator.Config{
			Log:     logging.NewTest(),
			Options: opts,
			Model:   model,
			Solver:  &solvertest.Fake{KernelName: "FD-DIF3D", KeffValue: 1.01},
			Lib:     lib,
			Doser:   doser,
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = exec.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())

		Expect(doser.UpdateFluenceAndDpa(model, 30*core.SecondsPerDay, nil)).To(Succeed())

		fuel := model.Core.Assemblies[0].Blocks[1]
		Expect(fuel.Params.DetailedDpa).To(BeNumerically(">", 0))
		Expect(fuel.Params.Fluence).To(BeNumerically(">", 0))

		summary := report.Collect(model, opts.Label)
		Expect(summary.Keff).To(Equal(1.01))
		Expect(summary.MaxDpa).To(BeNumerically(">", 0))
		Expect(summary.Assemblies).To(HaveLen(2))

		path := filepath.Join(GinkgoT().TempDir(), "summary.yaml")
		Expect(summary.WriteYAML(path)).To(Succeed())
		Expect(path).To(BeARegularFile())
	})

	It("runs against an external script kernel", func() {
		dir := GinkgoT().TempDir()
		script := `#!/bin/sh
cat > "$2" <<'EOF'
keff: 1.005
blocks:
  - {assembly: 1, index: 0, mgFlux: [1.0e13, 2.0e13], flux: 3.0e13, fluxPeak: 3.3e13}
  - {assembly: 1, index: 1, mgFlux: [1.0e14, 2.0e14], flux: 3.0e14, fluxPeak: 3.6e14}
  - {assembly: 2, index: 0, mgFlux: [1.0e13, 2.0e13], flux: 3.0e13, fluxPeak: 3.3e13}
  - {assembly: 2, index: 1, mgFlux: [1.0e14, 2.0e14], flux: 3.0e14, fluxPeak: 3.6e14}
  - {assembly: 3, index: 0, mgFlux: [1.0e13, 2.0e13], flux: 3.0e13, fluxPeak: 3.3e13}
  - {assembly: 3, index: 1, mgFlux: [1.0e14, 2.0e14], flux: 3.0e14, fluxPeak: 3.6e14}
EOF
`
		bin := filepath.Join(dir, "kernel.sh")
		Expect(os.WriteFile(bin, []byte(script), 0o755)).To(Succeed())

		solver.RegisterExternal(solver.ExternalConfig{
			Kernel:  "FD-DIF3D",
			Path:    bin,
			WorkDir: dir,
		})
		kernel, err := solver.New("FD-DIF3D")
		Expect(err).NotTo(HaveOccurred())

		exec, err := orchestrator.New(orchestrator.Config{
			Log:     logging.NewTest(),
			Options: opts,
			Model:   model,
			Solver:  kernel,
			Lib:     lib,
		})
		Expect(err).NotTo(HaveOccurred())

		out, err := exec.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Keff()).To(Equal(1.005))
		Expect(model.Core.Assemblies[0].Blocks[1].Params.Flux).To(Equal(3.0e14))
	})
})
