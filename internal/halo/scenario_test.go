package halo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/halo"
	"github.com/san-kum/halosim/internal/history"
)

var _ = Describe("Simulation", func() {
	var sim *halo.Simulation

	BeforeEach(func() {
		var err error
		sim, err = halo.Create(20, 50, halo.WithHistory(history.NewLog()))
		Expect(err).NotTo(HaveOccurred())
		Expect(sim.InjectSource(25, 25, 1e10, 2)).To(Succeed())
	})

	Context("with a seed and a perturbation at the centre", func() {
		var startFoam float64

		BeforeEach(func() {
			Expect(sim.InjectPerturbation(25, 25, 2.0, 5)).To(Succeed())
			startFoam = sim.Unfrozen().Sum()
		})

		It("freezes mass and drains the mobile field over 10 steps", func() {
			for i := 0; i < 10; i++ {
				Expect(sim.Step(10)).To(Succeed())
			}

			Expect(sim.Frozen().Sum()).To(BeNumerically(">", 0))
			Expect(sim.Unfrozen().Sum()).To(BeNumerically("<", startFoam))
			Expect(sim.Time()).To(BeNumerically("~", 100, 1e-9))
			Expect(sim.History().Len()).To(Equal(10))
		})

		It("keeps both densities non-negative and frozen non-decreasing", func() {
			prev := sim.Frozen()
			for i := 0; i < 25; i++ {
				Expect(sim.Step(10)).To(Succeed())

				foam, frozen := sim.Unfrozen(), sim.Frozen()
				Expect(foam.Min()).To(BeNumerically(">=", 0))
				Expect(frozen.Min()).To(BeNumerically(">=", 0))
				for j, v := range frozen.Data() {
					Expect(v).To(BeNumerically(">=", prev.Data()[j]))
				}
				prev = frozen
			}
		})

		It("freezes at most half of a cell's pre-step mobile density", func() {
			for i := 0; i < 10; i++ {
				before := sim.Frozen()
				foamBefore := sim.Unfrozen()
				Expect(sim.Step(10)).To(Succeed())

				after := sim.Frozen()
				for j := range after.Data() {
					moved := after.Data()[j] - before.Data()[j]
					// Transport can raise a cell by at most flow·|g|max·√2·dt first.
					bound := 0.5 * foamBefore.Data()[j] * (1 + math.Sqrt2*halo.DefaultFlowSpeed*halo.DefaultMaxGradient*10)
					Expect(moved).To(BeNumerically("<=", bound+1e-15))
				}
			}
		})

		It("conserves mobile + frozen mass up to the transport term", func() {
			total := sim.Unfrozen().Sum()
			Expect(sim.Step(10)).To(Succeed())
			after := sim.Unfrozen().Sum() + sim.Frozen().Sum()

			Expect(after).To(BeNumerically("~", total, total*0.05))
		})

		It("records the puncture", func() {
			Expect(sim.Punctures()).To(HaveLen(1))
			Expect(sim.Punctures()[0].Strength).To(Equal(2.0))
		})

		It("is reproducible", func() {
			twin, err := halo.Create(20, 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(twin.InjectSource(25, 25, 1e10, 2)).To(Succeed())
			Expect(twin.InjectPerturbation(25, 25, 2.0, 5)).To(Succeed())

			for i := 0; i < 5; i++ {
				Expect(sim.Step(10)).To(Succeed())
				Expect(twin.Step(10)).To(Succeed())
			}
			Expect(twin.Frozen().Equal(sim.Frozen())).To(BeTrue())
			Expect(twin.Unfrozen().Equal(sim.Unfrozen())).To(BeTrue())
		})

		It("orders history by time", func() {
			for i := 0; i < 6; i++ {
				Expect(sim.Step(5)).To(Succeed())
			}
			snaps := sim.History().Snapshots()
			for i := 1; i < len(snaps); i++ {
				Expect(snaps[i].Time).To(BeNumerically(">", snaps[i-1].Time))
				Expect(snaps[i].TotalFrozen).To(BeNumerically(">=", snaps[i-1].TotalFrozen))
			}
		})
	})

	Context("without a perturbation", func() {
		It("never freezes anything", func() {
			for i := 0; i < 20; i++ {
				Expect(sim.Step(10)).To(Succeed())
			}
			Expect(sim.Frozen().Max()).To(Equal(0.0))
			Expect(sim.Unfrozen().Max()).To(Equal(0.0))
		})
	})

	Describe("the potential", func() {
		It("has zero spatial mean after every step", func() {
			Expect(sim.InjectPerturbation(10, 40, 3, 4)).To(Succeed())
			for i := 0; i < 5; i++ {
				Expect(sim.Step(10)).To(Succeed())
				phi := sim.Potential()
				scale := math.Max(math.Abs(phi.Min()), math.Abs(phi.Max()))
				Expect(math.Abs(phi.Mean())).To(BeNumerically("<=", 1e-12*scale))
			}
		})

		It("is deepest under the seed", func() {
			Expect(sim.Step(1)).To(Succeed())
			phi := sim.Potential()
			Expect(phi.At(10, 10)).To(Equal(phi.Min()))
		})
	})

	DescribeTable("gradient edge policies keep densities bounded",
		func(edge field.EdgePolicy) {
			p := halo.DefaultParams()
			p.EdgePolicy = edge
			s, err := halo.Create(16, 40, halo.WithParams(p))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.InjectSource(20, 20, 1e10, 3)).To(Succeed())
			Expect(s.InjectPerturbation(18, 22, 2, 10)).To(Succeed())

			for i := 0; i < 20; i++ {
				Expect(s.Step(10)).To(Succeed())
			}
			Expect(s.Unfrozen().Min()).To(BeNumerically(">=", 0))
			Expect(s.Unfrozen().Max()).To(BeNumerically("<=", p.DensityCap))
			Expect(s.Frozen().IsValid()).To(BeTrue())
		},
		Entry("zero", field.EdgeZero),
		Entry("one-sided", field.EdgeOneSided),
		Entry("periodic", field.EdgePeriodic),
	)
})
