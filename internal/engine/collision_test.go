package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/particle"
)

func TestDetectCollision_Approaching(t *testing.T) {
	tests := []struct {
		name   string
		target particle.Particle
		mover  particle.Particle
	}{
		{"from right", unit(vec(101, 100), vec(-1, 0)), unit(vec(100, 100), vec(1, 0))},
		{"from left", unit(vec(99, 100), vec(1, 0)), unit(vec(100, 100), vec(-1, 0))},
		{"from top", unit(vec(100, 101), vec(0, -1)), unit(vec(100, 100), vec(0, 1))},
		{"from bottom", unit(vec(100, 99), vec(0, 1)), unit(vec(100, 100), vec(0, -1))},
		{"diagonal", unit(vec(101, 101), vec(-1, -1)), unit(vec(100, 100), vec(1, 1))},
		{"antidiagonal", unit(vec(99, 99), vec(1, 1)), unit(vec(100, 100), vec(-1, -1))},
		{"exactly touching", unit(vec(102, 100), vec(-1, 0)), unit(vec(100, 100), vec(1, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !DetectCollision(tt.mover, tt.target) {
				t.Error("expected collision")
			}
		})
	}
}

func TestDetectCollision_NotApproaching(t *testing.T) {
	still := unit(vec(100, 100), vec(0, 0))

	tests := []struct {
		name   string
		target particle.Particle
	}{
		{"leaving right", unit(vec(101, 100), vec(1, 0))},
		{"leaving left", unit(vec(99, 100), vec(-1, 0))},
		{"leaving top", unit(vec(100, 99), vec(0, -1))},
		{"leaving bottom", unit(vec(100, 101), vec(0, 1))},
		{"leaving diagonally", unit(vec(101, 99), vec(1, -1))},
		{"leaving antidiagonally", unit(vec(99, 101), vec(-1, 1))},
		{"both still", unit(vec(100, 101), vec(0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if DetectCollision(still, tt.target) {
				t.Error("unexpected collision")
			}
		})
	}
}

func TestDetectCollision_TouchingButSeparating(t *testing.T) {
	a := unit(vec(100, 100), vec(-1, 0))
	b := unit(vec(102, 100), vec(1, 0))
	if DetectCollision(a, b) {
		t.Error("separating particles exactly two radii apart must not collide")
	}

	c := unit(vec(100, 100), vec(1, 0))
	d := unit(vec(102, 100), vec(1, 0))
	if DetectCollision(c, d) {
		t.Error("zero relative velocity must not collide")
	}
}

func TestDetectCollision_NotTouching(t *testing.T) {
	a := unit(vec(100, 100), vec(1, 0))
	b := unit(vec(102.0001, 100), vec(-1, 0))
	if DetectCollision(a, b) {
		t.Error("particles further apart than the radius sum must not collide")
	}
}

func TestVelocityAfterCollision_EqualMass(t *testing.T) {
	tests := []struct {
		name           string
		a, b           particle.Particle
		wantA, wantB   r2.Vec
		wantPA, wantPB r2.Vec
	}{
		{
			"head-on x",
			unit(vec(100, 100), vec(1, 0)), unit(vec(101, 100), vec(-1, 0)),
			vec(-1, 0), vec(1, 0), vec(99, 100), vec(102, 100),
		},
		{
			"head-on y",
			unit(vec(100, 100), vec(0, 1)), unit(vec(100, 101), vec(0, -1)),
			vec(0, -1), vec(0, 1), vec(100, 99), vec(100, 102),
		},
		{
			"diagonal",
			unit(vec(100, 100), vec(1, 1)), unit(vec(101, 101), vec(-1, -1)),
			vec(-1, -1), vec(1, 1), vec(99, 99), vec(102, 102),
		},
		{
			"one at rest",
			unit(vec(100, 100), vec(1, 0)), unit(vec(102, 100), vec(0, 0)),
			vec(0, 0), vec(1, 0), vec(100, 100), vec(103, 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			va := VelocityAfterCollision(tt.a, tt.b)
			vb := VelocityAfterCollision(tt.b, tt.a)
			if !closeVec(va, tt.wantA) || !closeVec(vb, tt.wantB) {
				t.Fatalf("velocities = %v, %v; want %v, %v", va, vb, tt.wantA, tt.wantB)
			}

			tt.a.SetVelocity(va)
			tt.b.SetVelocity(vb)
			Integrate(&tt.a)
			Integrate(&tt.b)
			if !closeVec(tt.a.Position(), tt.wantPA) || !closeVec(tt.b.Position(), tt.wantPB) {
				t.Errorf("positions = %v, %v; want %v, %v", tt.a.Position(), tt.b.Position(), tt.wantPA, tt.wantPB)
			}
		})
	}
}

func TestVelocityAfterCollision_UnequalMass(t *testing.T) {
	heavy := particle.MustNew(vec(100, 100), vec(1, 0), 5, 5, "cyan")
	light := particle.MustNew(vec(102, 100), vec(-1, 0), 1, 1, "cyan")
	if !DetectCollision(heavy, light) {
		t.Fatal("expected collision")
	}

	vh := VelocityAfterCollision(heavy, light)
	vl := VelocityAfterCollision(light, heavy)

	if !closeVec(vh, vec(1.0/3, 0)) {
		t.Errorf("heavy velocity = %v, want {0.3333 0}", vh)
	}
	if !closeVec(vl, vec(7.0/3, 0)) {
		t.Errorf("light velocity = %v, want {2.3333 0}", vl)
	}

	before := 5*1.0 + 1*(-1.0)
	after := 5*vh.X + 1*vl.X
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("momentum %v -> %v", before, after)
	}
}

// Feeding p1's updated velocity into p2's update is not an elastic
// collision: momentum is lost. This is why both results are captured first.
func TestVelocityAfterCollision_SequentialUpdateDiffers(t *testing.T) {
	heavy := particle.MustNew(vec(100, 100), vec(1, 0), 5, 5, "cyan")
	light := particle.MustNew(vec(102, 100), vec(-1, 0), 1, 1, "cyan")

	heavy.SetVelocity(VelocityAfterCollision(heavy, light))
	light.SetVelocity(VelocityAfterCollision(light, heavy))

	if !closeVec(light.Velocity(), vec(11.0/9, 0)) {
		t.Errorf("sequential light velocity = %v, want {1.2222 0}", light.Velocity())
	}
	if got := 5*heavy.Velocity().X + light.Velocity().X; math.Abs(got-4) < 1e-6 {
		t.Error("sequential update unexpectedly conserved momentum")
	}
}

func TestVelocityAfterCollision_CoincidentCenters(t *testing.T) {
	a := unit(vec(100, 100), vec(1, 2))
	b := unit(vec(100, 100), vec(-3, 0))

	got := VelocityAfterCollision(a, b)
	if got != vec(1, 2) {
		t.Errorf("coincident centers changed velocity to %v", got)
	}
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Error("coincident centers produced NaN")
	}
}

func TestAdjustVelocitiesOnCollision_Simultaneous(t *testing.T) {
	ps := []particle.Particle{
		unit(vec(100, 100), vec(1, 0)),
		unit(vec(101, 100), vec(-1, 0)),
	}

	if n := AdjustVelocitiesOnCollision(ps); n != 1 {
		t.Fatalf("resolved %d pairs, want 1", n)
	}
	if ps[0].Velocity() != vec(-1, 0) || ps[1].Velocity() != vec(1, 0) {
		t.Errorf("velocities = %v, %v; want {-1 0}, {1 0}", ps[0].Velocity(), ps[1].Velocity())
	}
}

func TestAdjustVelocitiesOnCollision_ChainIsSequentialAcrossPairs(t *testing.T) {
	// 1 touches both 0 and 2. Pair (0,1) resolves first and hands 0's
	// velocity to 1; pair (1,2) then sees the updated velocity of 1.
	ps := []particle.Particle{
		unit(vec(100, 100), vec(1, 0)),
		unit(vec(102, 100), vec(0, 0)),
		unit(vec(104, 100), vec(-1, 0)),
	}

	if n := AdjustVelocitiesOnCollision(ps); n != 2 {
		t.Fatalf("resolved %d pairs, want 2", n)
	}

	want := []r2.Vec{vec(0, 0), vec(-1, 0), vec(1, 0)}
	for i, w := range want {
		if !closeVec(ps[i].Velocity(), w) {
			t.Errorf("particle %d velocity = %v, want %v", i, ps[i].Velocity(), w)
		}
	}
}

func TestAdjustVelocitiesOnCollision_NoPairs(t *testing.T) {
	ps := []particle.Particle{
		unit(vec(10, 10), vec(1, 0)),
		unit(vec(50, 50), vec(-1, 0)),
	}
	if n := AdjustVelocitiesOnCollision(ps); n != 0 {
		t.Errorf("resolved %d pairs, want 0", n)
	}
	if n := AdjustVelocitiesOnCollision(nil); n != 0 {
		t.Errorf("nil slice resolved %d pairs", n)
	}
}
