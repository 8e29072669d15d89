package engine_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/particle"
)

func randomParticle(rng *rand.Rand) particle.Particle {
	return particle.MustNew(
		r2.Vec{X: 100 + rng.Float64()*6, Y: 100 + rng.Float64()*6},
		r2.Vec{X: rng.Float64()*4 - 2, Y: rng.Float64()*4 - 2},
		0.5+rng.Float64()*5,
		0.5+rng.Float64()*3,
		"cyan",
	)
}

var _ = Describe("DetectCollision", func() {
	It("is symmetric in its arguments", func() {
		rng := rand.New(rand.NewSource(7))
		hits := 0
		for i := 0; i < 5000; i++ {
			p1, p2 := randomParticle(rng), randomParticle(rng)
			got := engine.DetectCollision(p1, p2)
			Expect(engine.DetectCollision(p2, p1)).To(Equal(got))
			if got {
				hits++
			}
		}
		Expect(hits).To(BeNumerically(">", 0))
	})
})

var _ = Describe("VelocityAfterCollision", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(42))
	})

	It("conserves momentum and kinetic energy when applied simultaneously", func() {
		checked := 0
		for checked < 500 {
			p1, p2 := randomParticle(rng), randomParticle(rng)
			if !engine.DetectCollision(p1, p2) {
				continue
			}
			checked++

			pBefore := r2.Add(p1.Momentum(), p2.Momentum())
			eBefore := p1.KineticEnergy() + p2.KineticEnergy()

			v1 := engine.VelocityAfterCollision(p1, p2)
			v2 := engine.VelocityAfterCollision(p2, p1)
			p1.SetVelocity(v1)
			p2.SetVelocity(v2)

			pAfter := r2.Add(p1.Momentum(), p2.Momentum())
			eAfter := p1.KineticEnergy() + p2.KineticEnergy()

			Expect(pAfter.X).To(BeNumerically("~", pBefore.X, 1e-9))
			Expect(pAfter.Y).To(BeNumerically("~", pBefore.Y, 1e-9))
			Expect(eAfter).To(BeNumerically("~", eBefore, 1e-9))
		}
	})

	It("leaves the pair separating afterwards", func() {
		checked := 0
		for checked < 500 {
			p1, p2 := randomParticle(rng), randomParticle(rng)
			if !engine.DetectCollision(p1, p2) {
				continue
			}
			approach := r2.Dot(r2.Sub(p1.Velocity(), p2.Velocity()), r2.Sub(p1.Position(), p2.Position()))
			if approach > -1e-6 {
				// grazing contact, sign is at the mercy of rounding
				continue
			}
			checked++

			v1 := engine.VelocityAfterCollision(p1, p2)
			v2 := engine.VelocityAfterCollision(p2, p1)
			p1.SetVelocity(v1)
			p2.SetVelocity(v2)

			Expect(engine.DetectCollision(p1, p2)).To(BeFalse())
		}
	})

	DescribeTable("unequal masses along the x axis",
		func(m1, v1, m2, v2, want1, want2 float64) {
			a := particle.MustNew(r2.Vec{X: 100, Y: 100}, r2.Vec{X: v1}, m1, 1, "a")
			b := particle.MustNew(r2.Vec{X: 102, Y: 100}, r2.Vec{X: v2}, m2, 1, "b")
			Expect(engine.DetectCollision(a, b)).To(BeTrue())

			Expect(engine.VelocityAfterCollision(a, b).X).To(BeNumerically("~", want1, 1e-9))
			Expect(engine.VelocityAfterCollision(b, a).X).To(BeNumerically("~", want2, 1e-9))
		},
		Entry("heavy hits light", 5.0, 1.0, 1.0, -1.0, 1.0/3, 7.0/3),
		Entry("equal masses swap", 1.0, 2.0, 1.0, -3.0, -3.0, 2.0),
		Entry("light hits resting heavy", 1.0, 1.0, 3.0, 0.0, -0.5, 0.5),
	)
})

var _ = Describe("AdvanceFrame", func() {
	It("keeps kinetic energy constant in a closed box", func() {
		b := engine.Square(300, 10)
		var ps []particle.Particle
		for i := 0; i < 10; i++ {
			for j := 0; j < 10; j++ {
				ps = append(ps, particle.MustNew(
					r2.Vec{X: 30 + float64(i)*25, Y: 30 + float64(j)*25},
					r2.Vec{X: float64(i%5) - 2, Y: float64(j%3) - 1},
					float64(1+(i+j)%4), 5, "cyan",
				))
			}
		}

		energy := func() float64 {
			e := 0.0
			for _, p := range ps {
				e += p.KineticEnergy()
			}
			return e
		}

		start := energy()
		for f := 0; f < 300; f++ {
			engine.AdvanceFrame(ps, b)
		}
		Expect(energy()).To(BeNumerically("~", start, 1e-6*start))
	})
})
