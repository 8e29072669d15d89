package engine

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/particle"
)

const (
	testArena  = 200.0
	testMargin = 0.0
)

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func unit(pos, vel r2.Vec) particle.Particle {
	return particle.MustNew(pos, vel, 1, 1, "cyan")
}

func closeVec(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestWallCollision_NoBounceInside(t *testing.T) {
	tests := []struct {
		name string
		pos  r2.Vec
	}{
		{"near right wall", vec(198.9, 100)},
		{"near left wall", vec(1.1, 100)},
		{"near top wall", vec(100, 198.9)},
		{"near bottom wall", vec(100, 1.1)},
		{"center", vec(100, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := unit(tt.pos, vec(1, -1))
			WallCollision(testArena, testMargin, &p)
			if p.Velocity() != vec(1, -1) {
				t.Errorf("velocity changed to %v", p.Velocity())
			}
		})
	}
}

func TestWallCollision_BounceAndIntegrate(t *testing.T) {
	tests := []struct {
		name    string
		pos     r2.Vec
		vel     r2.Vec
		wantPos r2.Vec
		wantVel r2.Vec
	}{
		{"right wall", vec(199, 100), vec(1, 0), vec(198, 100), vec(-1, 0)},
		{"left wall", vec(1, 100), vec(-1, 0), vec(2, 100), vec(1, 0)},
		{"top wall", vec(100, 0.9), vec(0, -1), vec(100, 1.9), vec(0, 1)},
		{"bottom wall", vec(100, 199.1), vec(0, 1), vec(100, 198.1), vec(0, -1)},
		{"top left corner", vec(0, 0), vec(-1, -1), vec(1, 1), vec(1, 1)},
		{"top right corner", vec(200, 0), vec(1, -1), vec(199, 1), vec(-1, 1)},
		{"bottom left corner", vec(0, 200), vec(-1, 1), vec(1, 199), vec(1, -1)},
		{"bottom right corner", vec(200, 200), vec(1, 1), vec(199, 199), vec(-1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := unit(tt.pos, tt.vel)
			WallCollision(testArena, testMargin, &p)
			Integrate(&p)

			if p.Velocity() != tt.wantVel {
				t.Errorf("velocity = %v, want %v", p.Velocity(), tt.wantVel)
			}
			if !closeVec(p.Position(), tt.wantPos) {
				t.Errorf("position = %v, want %v", p.Position(), tt.wantPos)
			}
		})
	}
}

func TestWallCollision_Margin(t *testing.T) {
	p := particle.MustNew(vec(15, 100), vec(-2, 0), 1, 5, "cyan")
	WallCollision(testArena, 10, &p)
	if p.Velocity() != vec(2, 0) {
		t.Errorf("expected bounce at margin+radius, got %v", p.Velocity())
	}

	p = particle.MustNew(vec(15.5, 100), vec(-2, 0), 1, 5, "cyan")
	WallCollision(testArena, 10, &p)
	if p.Velocity() != vec(-2, 0) {
		t.Errorf("expected no bounce inside margin+radius, got %v", p.Velocity())
	}
}

func TestBoundsReflect_Rectangular(t *testing.T) {
	b := Bounds{Width: 300, Height: 100, Margin: 0}

	// x=150 is inside a 300-wide arena but would be outside a 100 square.
	p := unit(vec(150, 99), vec(1, 1))
	b.Reflect(&p)
	if p.Velocity() != vec(1, -1) {
		t.Errorf("velocity = %v, want {1 -1}", p.Velocity())
	}
}

func TestBoundsValidate(t *testing.T) {
	tests := []struct {
		name   string
		b      Bounds
		radius float64
		ok     bool
	}{
		{"roomy", Square(200, 10), 5, true},
		{"exactly full", Square(30, 10), 5, false},
		{"too small", Square(20, 10), 5, false},
		{"narrow height", Bounds{Width: 200, Height: 10, Margin: 0}, 5, false},
		{"negative margin", Square(200, -1), 5, false},
		{"NaN width", Bounds{Width: math.NaN(), Height: 100}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate(tt.radius)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrDegenerateBounds) {
				t.Errorf("expected ErrDegenerateBounds, got %v", err)
			}
		})
	}
}
