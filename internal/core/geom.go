// Package core provides the drawing model of the console: the two-tone
// framebuffer, its palette, the glyph atlas, input reduction and frame timing.
// It contains no window, terminal or scripting dependencies so that everything
// scripts can observe is testable without a display.
package core

import "math"

// MaxCoord bounds every drawing coordinate. Anything farther out is already
// off any surface, and the bound keeps edge arithmetic from overflowing.
const MaxCoord = 1 << 24

// Rect represents an axis-aligned area on the framebuffer grid.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
// Negative sizes are flipped so the rectangle grows from the opposite corner.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		x += w
		w = -w
	}
	if h < 0 {
		y += h
		h = -h
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlapping area of two rectangles.
// The result is empty when they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := Max(r.X, other.X)
	y0 := Max(r.Y, other.Y)
	x1 := Min(r.Right(), other.Right())
	y1 := Min(r.Bottom(), other.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
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

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
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

// ClampCoord restricts v to [-MaxCoord, MaxCoord].
func ClampCoord(v int) int {
	return Clamp(v, -MaxCoord, MaxCoord)
}

// CoordFromFloat truncates f toward zero and clamps it to
// [-MaxCoord, MaxCoord]. It reports false for NaN.
func CoordFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < -MaxCoord {
		return -MaxCoord, true
	}
	if f > MaxCoord {
		return MaxCoord, true
	}
	return int(f), true
}

// addSat adds two ints, saturating instead of wrapping.
func addSat(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	if b < 0 && a < math.MinInt-b {
		return math.MinInt
	}
	return a + b
}
