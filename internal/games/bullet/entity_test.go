package bullet

import (
	"testing"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/core"
)

func newTestState() *State {
	return NewStateFromConfig(config.DefaultConfig())
}

func TestNewProjectileClampsRadius(t *testing.T) {
	o := NewProjectile(core.V(1, 2), core.V(0, 1), -3, 0, core.ColorWhite)
	if o.Radius != 0 {
		t.Errorf("radius = %g, expected 0", o.Radius)
	}
	if !o.Deadly || o.Kind != KindProjectile {
		t.Errorf("projectile = %+v, expected deadly projectile", o)
	}
}

func TestIntersectsPointBoundary(t *testing.T) {
	o := NewProjectile(core.V(10, 10), core.Vec{}, 2, 0, core.ColorWhite)

	tests := []struct {
		p    core.Vec
		want bool
	}{
		{core.V(10, 10), true},
		{core.V(12, 10), true}, // exactly on the edge
		{core.V(10, 7.99), false},
		{core.V(11.4, 11.4), true},
		{core.V(11.5, 11.5), false},
	}

	for _, tc := range tests {
		if got := o.IntersectsPoint(tc.p); got != tc.want {
			t.Errorf("IntersectsPoint(%v) = %v, expected %v", tc.p, got, tc.want)
		}
	}
}

func TestShouldRemainBoundaries(t *testing.T) {
	s := newTestState() // 100 x 180

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 50, 90, true},
		{"left edge exclusive", -2, 50, false},
		{"left inside radius", -1.9, 50, true},
		{"right edge exclusive", 102, 50, false},
		{"right inside radius", 101.9, 50, true},
		{"bottom edge exclusive", 50, 182, false},
		{"bottom inside radius", 50, 181.9, true},
		{"far above field", 50, -1000, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewProjectile(core.V(tc.x, tc.y), core.Vec{}, 2, 0, core.ColorWhite)
			if got := o.ShouldRemain(s); got != tc.want {
				t.Errorf("ShouldRemain at (%g, %g) = %v, expected %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestParticleExpiry(t *testing.T) {
	s := newTestState()
	p := NewParticle(core.V(50, 90), core.Vec{}, 0.4, 10, core.ColorRed)

	s.Frame = 10 + s.FPS
	if !p.ShouldRemain(s) {
		t.Errorf("particle should remain at frame %d", s.Frame)
	}
	s.Frame++
	if p.ShouldRemain(s) {
		t.Errorf("particle should expire at frame %d", s.Frame)
	}

	// Projectiles never expire.
	o := NewProjectile(core.V(50, 90), core.Vec{}, 1, 10, core.ColorWhite)
	s.Frame = 10_000
	if !o.ShouldRemain(s) {
		t.Error("projectile should not expire")
	}
}

func TestAdvance(t *testing.T) {
	o := NewProjectile(core.V(1, 1), core.V(0.5, -2), 1, 0, core.ColorWhite)
	o.Advance()
	o.Advance()
	if o.Pos != core.V(2, -3) {
		t.Errorf("pos = %v, expected (2, -3)", o.Pos)
	}
	if o.Vel != core.V(0.5, -2) {
		t.Errorf("velocity changed to %v", o.Vel)
	}
}

func TestKindString(t *testing.T) {
	if KindProjectile.String() != "projectile" || KindParticle.String() != "particle" {
		t.Error("Kind.String mismatch")
	}
}
