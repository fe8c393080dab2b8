// Package core provides fundamental types shared by the jumper simulation,
// the backend and the terminal platform. It has no external dependencies
// (especially no Bubble Tea) so game logic stays pure and testable.
package core

import "math"

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left cell
	W, H int // Size in cells
}

// NewRect creates a cell rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// RectF is an axis-aligned bounding box in world pixels.
// Y grows downward, so Top < Bottom.
type RectF struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// CenteredRect builds a box of size w×h around the center (cx, cy).
// Entities store their position as a center point.
func CenteredRect(cx, cy, w, h float64) RectF {
	return RectF{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Left returns the x-coordinate of the left edge.
func (r RectF) Left() float64 { return r.X }

// Right returns the x-coordinate of the right edge.
func (r RectF) Right() float64 { return r.X + r.W }

// Top returns the y-coordinate of the top edge.
func (r RectF) Top() float64 { return r.Y }

// Bottom returns the y-coordinate of the bottom edge.
func (r RectF) Bottom() float64 { return r.Y + r.H }

// Center returns the center point.
func (r RectF) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Intersects reports whether two boxes overlap with a non-zero area.
// Touching edges do not count.
func (r RectF) Intersects(o RectF) bool {
	if r.X >= o.Right() || o.X >= r.Right() {
		return false
	}
	return r.Y < o.Bottom() && o.Y < r.Bottom()
}

// OverlapsX reports whether the horizontal extents overlap.
func (r RectF) OverlapsX(o RectF) bool {
	return r.X < o.Right() && o.X < r.Right()
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
	return math.Max(min, math.Min(max, val))
}

// Lerp moves a toward b by the fraction t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Distance returns the euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
