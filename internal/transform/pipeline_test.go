package transform

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/corephysics/globalflux/internal/logging"
	"github.com/corephysics/globalflux/pkg/config"
	"github.com/corephysics/globalflux/pkg/core"
)

// makeModel builds a third-core periodic hex model with one interior and one
// symmetry-edge assembly, non-uniform axial mesh.
func makeModel() *core.Reactor {
	mkBlocks := func(prefix string, heights []float64, fluxes []float64) []*core.Block {
		out := make([]*core.Block, len(heights))
		for i := range heights {
			out[i] = &core.Block{
				Name:   prefix,
				Flags:  core.FlagFuel,
				Height: heights[i],
				Volume: heights[i] * 10,
				Params: core.BlockParams{
					Flux:   fluxes[i],
					MgFlux: []float64{fluxes[i] * 0.4, fluxes[i] * 0.6},
					Power:  fluxes[i] * 1e-9,
				},
			}
		}
		return out
	}
	c := &core.Core{
		Name:     "test core",
		Geom:     core.GeomHex,
		Symmetry: core.Symmetry{Domain: core.ThirdCore, Boundary: core.BoundaryPeriodic},
		Assemblies: []*core.Assembly{
			{
				Name: "A1", Number: 1, Flags: core.FlagFuel,
				Blocks: mkBlocks("A1", []float64{20, 30, 50}, []float64{1e14, 3e14, 2e14}),
			},
			{
				Name: "A2", Number: 2, Flags: core.FlagFuel, SymmetryEdge: true,
				Blocks: mkBlocks("A2", []float64{50, 50}, []float64{2e14, 1e14}),
			},
		},
	}
	c.ResetAssemblyNumbering()
	return &core.Reactor{CaseTitle: "test", Core: c}
}

func makeOptions() *config.Options {
	opts := config.NewOptions("test-flux-c0n0")
	opts.KernelName = "FD-DIF3D"
	opts.GeomType = core.GeomHex
	opts.Symmetry = core.Symmetry{Domain: core.ThirdCore, Boundary: core.BoundaryPeriodic}
	opts.ParamsToScaleSubset = []string{"flux", "power"}
	return opts
}

func totalPower(r *core.Reactor) float64 {
	var w float64
	for _, b := range r.Core.Blocks() {
		w += b.Params.Power
	}
	return w
}

var ignoreHidden = cmpopts.IgnoreUnexported(core.Core{}, core.Assembly{})

var _ = Describe("EdgeAssemblyStep", func() {
	var step *EdgeAssemblyStep

	BeforeEach(func() {
		step = &EdgeAssemblyStep{log: logging.NewTest()}
	})

	Describe("Needed", func() {
		It("fires for a finite-difference kernel on a periodic third-core hex model", func() {
			Expect(step.Needed(makeOptions())).To(BeTrue())
		})

		It("does not fire for a nodal kernel", func() {
			opts := makeOptions()
			opts.KernelName = "VARIANT"
			Expect(step.Needed(opts)).To(BeFalse())
		})

		It("does not fire on a full-core model", func() {
			opts := makeOptions()
			opts.Symmetry = core.Symmetry{Domain: core.FullCore}
			Expect(step.Needed(opts)).To(BeFalse())
		})

		It("does not fire with a reflective boundary", func() {
			opts := makeOptions()
			opts.Symmetry.Boundary = core.BoundaryReflective
			Expect(step.Needed(opts)).To(BeFalse())
		})

		It("does not fire on cartesian geometry", func() {
			opts := makeOptions()
			opts.GeomType = core.GeomCartesian
			Expect(step.Needed(opts)).To(BeFalse())
		})
	})

	Describe("Apply and Undo", func() {
		It("duplicates symmetry-edge assemblies with fresh numbers", func() {
			r := makeModel()
			_, err := step.Apply(r)
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Core.Assemblies).To(HaveLen(3))
			dup := r.Core.Assemblies[2]
			Expect(dup.AddedByTransform()).To(BeTrue())
			Expect(dup.Number).To(Equal(3))
			Expect(dup.SymmetryEdge).To(BeTrue())
		})

		It("averages the split pair and removes the duplicate on undo", func() {
			r := makeModel()
			_, err := step.Apply(r)
			Expect(err).NotTo(HaveOccurred())

			// distinct solutions on the two half assemblies
			src := r.Core.Assemblies[1]
			dup := r.Core.Assemblies[2]
			src.Blocks[0].Params.Flux = 4e14
			dup.Blocks[0].Params.Flux = 2e14

			_, err = step.Undo(r, makeOptions())
			Expect(err).NotTo(HaveOccurred())

			Expect(r.Core.Assemblies).To(HaveLen(2))
			Expect(src.Blocks[0].Params.Flux).To(BeNumerically("~", 3e14, 1))
		})

		It("resets assembly numbering after undo", func() {
			r := makeModel()
			_, err := step.Apply(r)
			Expect(err).NotTo(HaveOccurred())
			_, err = step.Undo(r, makeOptions())
			Expect(err).NotTo(HaveOccurred())

			// the number freed by the removed duplicate is reissued
			Expect(r.Core.NextAssemblyNumber()).To(Equal(3))
		})

		It("does not duplicate an already-inserted duplicate on re-apply", func() {
			r := makeModel()
			_, err := step.Apply(r)
			Expect(err).NotTo(HaveOccurred())
			_, err = step.Apply(r)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Core.Assemblies).To(HaveLen(4))
		})
	})
})

var _ = Describe("AxialMeshStep", func() {
	var step *AxialMeshStep

	BeforeEach(func() {
		step = &AxialMeshStep{log: logging.NewTest()}
	})

	It("is needed only for detailed axial expansion or non-uniform assemblies", func() {
		opts := makeOptions()
		Expect(step.Needed(opts)).To(BeFalse())
		opts.DetailedAxialExpansion = true
		Expect(step.Needed(opts)).To(BeTrue())
		opts.DetailedAxialExpansion = false
		opts.HasNonUniformAssems = true
		Expect(step.Needed(opts)).To(BeTrue())
	})

	It("builds a uniform-mesh copy and leaves the source untouched", func() {
		r := makeModel()
		before := r.Clone()

		conv, err := step.Apply(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(conv).NotTo(BeIdenticalTo(r))
		Expect(cmp.Diff(before, r, ignoreHidden)).To(BeEmpty())

		a := conv.Core.Assemblies[0]
		for _, b := range a.Blocks {
			Expect(b.Height).To(BeNumerically("~", 100.0/3.0, 1e-9))
		}
		Expect(a.Height()).To(BeNumerically("~", 100.0, 1e-9))
	})

	It("conserves total power across the conversion", func() {
		r := makeModel()
		want := totalPower(r)
		conv, err := step.Apply(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(totalPower(conv)).To(BeNumerically("~", want, want*1e-12))
	})

	It("pushes solved state back onto the source mesh when results are wanted", func() {
		r := makeModel()
		conv, err := step.Apply(r)
		Expect(err).NotTo(HaveOccurred())

		conv.Core.Params.Keff = 1.02
		for _, b := range conv.Core.Blocks() {
			b.Params.Flux = 7e14
		}

		opts := makeOptions()
		opts.ApplyResultsToReactor = true
		restored, err := step.Undo(conv, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(restored).To(BeIdenticalTo(r))
		Expect(r.Core.Params.Keff).To(Equal(1.02))
		Expect(r.Core.Blocks()[0].Params.Flux).To(BeNumerically("~", 7e14, 1))
	})

	It("fails undo without a prior apply", func() {
		_, err := step.Undo(makeModel(), makeOptions())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Pipeline", func() {
	var (
		p    *Pipeline
		opts *config.Options
	)

	BeforeEach(func() {
		p = NewPipeline(logging.NewTest())
		opts = makeOptions()
		opts.DetailedAxialExpansion = true
	})

	It("applies axial before edge assemblies", func() {
		_, err := p.Apply(makeModel(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.AppliedKinds()).To(Equal([]Kind{KindAxial, KindEdgeAssemblies}))
	})

	It("rejects a second apply while a transform is active", func() {
		r := makeModel()
		_, err := p.Apply(r, opts)
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Apply(r, opts)
		Expect(err).To(MatchError(ErrPipelineActive))
	})

	It("permits apply after restore", func() {
		r := makeModel()
		working, err := p.Apply(r, opts)
		Expect(err).NotTo(HaveOccurred())
		_, err = p.Restore(working, opts)
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Apply(r, opts)
		Expect(err).NotTo(HaveOccurred())
	})

	It("treats a repeated restore as a no-op", func() {
		r := makeModel()
		working, err := p.Apply(r, opts)
		Expect(err).NotTo(HaveOccurred())

		restored, err := p.Restore(working, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Active()).To(BeFalse())

		again, err := p.Restore(restored, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeIdenticalTo(restored))
	})

	It("skips steps that are not needed", func() {
		opts.DetailedAxialExpansion = false
		opts.KernelName = "VARIANT"
		r := makeModel()
		working, err := p.Apply(r, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(working).To(BeIdenticalTo(r))
		Expect(p.Active()).To(BeFalse())
	})

	It("clears the applied registry without undoing", func() {
		_, err := p.Apply(makeModel(), opts)
		Expect(err).NotTo(HaveOccurred())
		p.Clear()
		Expect(p.Active()).To(BeFalse())
	})
})
