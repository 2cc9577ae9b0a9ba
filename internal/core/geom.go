// Package core provides fundamental types and utilities for the bullet game.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Vec is a point or displacement in playfield units.
type Vec struct {
	X, Y float64
}

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// To returns the vector from v to p.
func (v Vec) To(p Vec) Vec {
	return Vec{X: p.X - v.X, Y: p.Y - v.Y}
}

// UnitTo returns the unit vector pointing from v towards p.
// Returns the zero vector when the two points coincide exactly.
func (v Vec) UnitTo(p Vec) Vec {
	d := v.To(p)
	length := d.Length()
	if length == 0 {
		return Vec{}
	}
	return Vec{X: d.X / length, Y: d.Y / length}
}

// DistanceTo returns the Euclidean distance between v and p.
func (v Vec) DistanceTo(p Vec) float64 {
	return v.To(p).Length()
}

// DistanceSquaredTo returns the squared Euclidean distance between v and p.
func (v Vec) DistanceSquaredTo(p Vec) float64 {
	dx := p.X - v.X
	dy := p.Y - v.Y
	return dx*dx + dy*dy
}

// Length returns the magnitude of v.
func (v Vec) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Scale multiplies v by k in place.
func (v *Vec) Scale(k float64) {
	v.X *= k
	v.Y *= k
}

// Scaled returns v multiplied by k.
func (v Vec) Scaled(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Rect represents an axis-aligned box of screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the cell (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
