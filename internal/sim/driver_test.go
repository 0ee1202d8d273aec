package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
	"github.com/san-kum/gravsim/internal/sim"
)

func momentum(cat *body.Catalog) body.Vec2 {
	p := body.Vec2{}
	for _, d := range cat.Dynamic {
		p = p.Add(d.Velocity.Scale(d.Mass))
	}
	return p
}

var _ = Describe("Simulator", func() {
	var (
		cfg sim.Config
		rec *collision.Recorder
	)

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		rec = &collision.Recorder{}
	})

	newSim := func(specs ...body.Spec) *sim.Simulator {
		cat, err := body.NewCatalog(specs)
		Expect(err).NotTo(HaveOccurred())
		s, err := sim.New(cat, cfg, sim.WithSink(rec))
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	Describe("a symmetric binary", func() {
		var s *sim.Simulator

		BeforeEach(func() {
			s = newSim(
				body.Spec{Kind: body.Dynamic, Mass: 2, Position: body.V(-60, 0), Velocity: body.V(0, 25), Radius: 3},
				body.Spec{Kind: body.Dynamic, Mass: 2, Position: body.V(60, 0), Velocity: body.V(0, -25), Radius: 3},
			)
		})

		It("conserves total momentum", func() {
			for i := 0; i < 50; i++ {
				_, err := s.Integrate(float64(i+1) * 10)
				Expect(err).NotTo(HaveOccurred())

				p := momentum(s.Snapshot())
				Expect(p.X).To(BeNumerically("~", 0, 1e-9))
				Expect(p.Y).To(BeNumerically("~", 0, 1e-9))
			}
		})

		It("keeps the bodies mirrored through the origin", func() {
			_, err := s.Integrate(20)
			Expect(err).NotTo(HaveOccurred())

			pos := s.Positions()
			Expect(pos[0].X).To(Equal(-pos[1].X))
			Expect(pos[0].Y).To(Equal(-pos[1].Y))
		})

		It("applies equal and opposite impulses in one step", func() {
			before := s.Snapshot()
			Expect(s.Step()).To(Succeed())
			after := s.Snapshot()

			dp1 := after.Dynamic[0].Velocity.Sub(before.Dynamic[0].Velocity).Scale(2)
			dp2 := after.Dynamic[1].Velocity.Sub(before.Dynamic[1].Velocity).Scale(2)
			Expect(dp1.X).To(BeNumerically("~", -dp2.X, 1e-12))
			Expect(dp1.Y).To(BeNumerically("~", -dp2.Y, 1e-12))
		})
	})

	Describe("static bodies", func() {
		It("stay bit-identical however long the run", func() {
			s := newSim(
				body.Spec{Kind: body.Static, Mass: 10, Position: body.V(0.1, -0.3), Radius: 6},
				body.Spec{Kind: body.Dynamic, Mass: 1, Position: body.V(0, 100), Velocity: body.V(-40, 0), Radius: 5},
				body.Spec{Kind: body.Test, Position: body.V(0, -100), Velocity: body.V(40, 0), Radius: 4},
			)
			_, err := s.Integrate(30)
			Expect(err).NotTo(HaveOccurred())

			st := s.Snapshot().Static[0]
			Expect(math.Float64bits(st.Position.X)).To(Equal(math.Float64bits(0.1)))
			Expect(math.Float64bits(st.Position.Y)).To(Equal(math.Float64bits(-0.3)))
		})

		It("never report collisions with each other", func() {
			s := newSim(
				body.Spec{Kind: body.Static, Position: body.V(0, 0), Radius: 5},
				body.Spec{Kind: body.Static, Position: body.V(2, 0), Radius: 5},
			)
			Expect(s.Step()).To(Succeed())
			Expect(rec.Len()).To(BeZero())
		})
	})

	Describe("Integrate", func() {
		It("never undershoots and overshoots by less than one step", func() {
			s := newSim(body.Spec{Kind: body.Test, Velocity: body.V(1, 0)})
			for _, target := range []float64{0.01, 0.5, 1, 1.0 / 3, 7.77} {
				_, err := s.Integrate(target)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Time()).To(BeNumerically(">=", target))
				Expect(s.Time() - target).To(BeNumerically("<", cfg.Dt))
			}
		})

		It("does nothing for a target in the past", func() {
			s := newSim(body.Spec{Kind: body.Test})
			Expect(s.Integrate(-1)).To(Equal(0))
			Expect(s.Time()).To(BeZero())
		})
	})

	Describe("collisions", func() {
		It("reports a probe diving into a well", func() {
			s := newSim(
				body.Spec{Name: "well", Kind: body.Static, Mass: 10, Radius: 6},
				body.Spec{Name: "probe", Kind: body.Test, Position: body.V(0, -100), Velocity: body.V(0, 60), Radius: 4},
			)
			_, err := s.Integrate(3)
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.Len()).To(BeNumerically(">", 0))
			Expect(rec.Events()[0].Pair()).To(Equal("well/probe"))
		})

		It("does not change the trajectory", func() {
			specs := []body.Spec{
				{Kind: body.Static, Mass: 10, Radius: 6},
				{Kind: body.Test, Position: body.V(0, -100), Velocity: body.V(0, 60), Radius: 4},
			}
			a := newSim(specs...)
			cfg.DetectCollisions = false
			b := newSim(specs...)

			_, _ = a.Integrate(3)
			_, _ = b.Integrate(3)
			Expect(a.Snapshot().Digest()).To(Equal(b.Snapshot().Digest()))
		})
	})
})
