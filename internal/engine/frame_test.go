package engine

import (
	"testing"

	"github.com/san-kum/idealgas/internal/particle"
)

func TestAdvanceFrame_NonInteractingOnlyMove(t *testing.T) {
	b := Square(testArena, testMargin)
	ps := []particle.Particle{
		unit(vec(50, 50), vec(1, 2)),
		unit(vec(150, 150), vec(-0.5, 0.25)),
		unit(vec(50, 150), vec(0, 0)),
	}
	start := append([]particle.Particle(nil), ps...)

	if n := AdvanceFrame(ps, b); n != 0 {
		t.Fatalf("unexpected collisions: %d", n)
	}

	for i := range ps {
		if ps[i].Velocity() != start[i].Velocity() {
			t.Errorf("particle %d velocity changed: %v -> %v", i, start[i].Velocity(), ps[i].Velocity())
		}
		want := vec(start[i].Position().X+start[i].Velocity().X, start[i].Position().Y+start[i].Velocity().Y)
		if ps[i].Position() != want {
			t.Errorf("particle %d position = %v, want %v", i, ps[i].Position(), want)
		}
	}
}

func TestAdvanceFrame_Order(t *testing.T) {
	// A pair colliding right against the wall: collision first, then the
	// wall flips the post-collision velocity, then one position update.
	b := Square(testArena, testMargin)
	ps := []particle.Particle{
		unit(vec(197, 100), vec(1, 0)),
		unit(vec(199, 100), vec(-1, 0)),
	}

	if n := AdvanceFrame(ps, b); n != 1 {
		t.Fatalf("collisions = %d, want 1", n)
	}

	// After the exchange particle 1 moves right at x=199 and bounces.
	if ps[1].Velocity() != vec(-1, 0) {
		t.Errorf("particle 1 velocity = %v, want {-1 0}", ps[1].Velocity())
	}
	if ps[1].Position() != vec(198, 100) {
		t.Errorf("particle 1 position = %v, want {198 100}", ps[1].Position())
	}
	if ps[0].Velocity() != vec(-1, 0) || ps[0].Position() != vec(196, 100) {
		t.Errorf("particle 0 = %v @ %v", ps[0].Velocity(), ps[0].Position())
	}
}

func TestAdvanceFrame_ParallelMatchesSequential(t *testing.T) {
	b := Square(500, 10)
	build := func() []particle.Particle {
		var ps []particle.Particle
		for i := 0; i < 20; i++ {
			for j := 0; j < 20; j++ {
				vx := float64((i*7+j*3)%11) - 5
				vy := float64((i*5+j*13)%9) - 4
				ps = append(ps, particle.MustNew(vec(25+float64(i)*22, 25+float64(j)*22), vec(vx, vy), float64(1+i%3), 4, "cyan"))
			}
		}
		return ps
	}

	seq := build()
	par := build()
	for f := 0; f < 100; f++ {
		n1 := AdvanceFrame(seq, b)
		n2 := AdvanceFrame(par, b, WithParallel(16))
		if n1 != n2 {
			t.Fatalf("frame %d: collisions %d vs %d", f, n1, n2)
		}
	}

	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("particle %d diverged: %+v vs %+v", i, seq[i], par[i])
		}
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64, 1000} {
		hits := make([]int, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}
