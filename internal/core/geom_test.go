package core

import (
	"math"
	"testing"
)

func TestVecUnitTo(t *testing.T) {
	tests := []struct {
		name     string
		from, to Vec
		expected Vec
	}{
		{"right", V(0, 0), V(5, 0), V(1, 0)},
		{"down", V(1, 1), V(1, 4), V(0, 1)},
		{"diagonal 3-4-5", V(0, 0), V(3, 4), V(0.6, 0.8)},
		{"same point", V(2, 2), V(2, 2), V(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.from.UnitTo(tc.to)
			if math.Abs(got.X-tc.expected.X) > 1e-12 || math.Abs(got.Y-tc.expected.Y) > 1e-12 {
				t.Errorf("UnitTo() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestVecDistance(t *testing.T) {
	a := V(1, 2)
	b := V(4, 6)

	if d := a.DistanceTo(b); d != 5 {
		t.Errorf("DistanceTo() = %f, expected 5", d)
	}
	if d := a.DistanceSquaredTo(b); d != 25 {
		t.Errorf("DistanceSquaredTo() = %f, expected 25", d)
	}
	if to := a.To(b); to != V(3, 4) {
		t.Errorf("To() = %v, expected (3, 4)", to)
	}
	if l := V(3, 4).Length(); l != 5 {
		t.Errorf("Length() = %f, expected 5", l)
	}
}

func TestVecScale(t *testing.T) {
	v := V(1.5, -2)
	v.Scale(2)
	if v != V(3, -4) {
		t.Errorf("Scale(2) = %v, expected (3, -4)", v)
	}

	w := V(1, 1).Scaled(0.5)
	if w != V(0.5, 0.5) {
		t.Errorf("Scaled(0.5) = %v, expected (0.5, 0.5)", w)
	}
	if sum := V(1, 2).Add(V(3, 4)); sum != V(4, 6) {
		t.Errorf("Add() = %v, expected (4, 6)", sum)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}

	if ClampF(-0.5, 0, 1) != 0 || ClampF(1.5, 0, 1) != 1 || ClampF(0.25, 0, 1) != 0.25 {
		t.Error("ClampF did not clamp to [0, 1]")
	}
}
