package core

import (
	"math"
	"testing"
)

func TestNewRectNormalizes(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		expected   Rect
	}{
		{"positive size", 2, 3, 4, 5, Rect{X: 2, Y: 3, W: 4, H: 5}},
		{"negative width", 10, 3, -4, 5, Rect{X: 6, Y: 3, W: 4, H: 5}},
		{"negative height", 2, 10, 4, -5, Rect{X: 2, Y: 5, W: 4, H: 5}},
		{"both negative", 10, 10, -2, -3, Rect{X: 8, Y: 7, W: 2, H: 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewRect(tc.x, tc.y, tc.w, tc.h)
			if got != tc.expected {
				t.Errorf("NewRect() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected Rect
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: NewRect(5, 5, 5, 5),
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: NewRect(5, 5, 5, 5),
		},
		{
			name:     "adjacent (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: Rect{},
		},
		{
			name:     "far outside",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(-50, -50, 5, 5),
			expected: Rect{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Intersect(tc.b)
			if got != tc.expected {
				t.Errorf("Intersect() = %+v, expected %+v", got, tc.expected)
			}
			if rev := tc.b.Intersect(tc.a); rev != tc.expected {
				t.Errorf("Intersect() (reversed) = %+v, expected %+v", rev, tc.expected)
			}
		})
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
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestMinMaxAbs(t *testing.T) {
	if Min(5, 10) != 5 || Min(10, 5) != 5 {
		t.Error("Min should return the smaller value")
	}
	if Max(5, 10) != 10 || Max(10, 5) != 10 {
		t.Error("Max should return the larger value")
	}
	if Abs(-5) != 5 || Abs(5) != 5 || Abs(0) != 0 {
		t.Error("Abs should return the magnitude")
	}
}

func TestCoordFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected int
		ok       bool
	}{
		{"whole", 12, 12, true},
		{"truncates toward zero", -3.7, -3, true},
		{"past max", 1e19, MaxCoord, true},
		{"past min", -1e19, -MaxCoord, true},
		{"positive infinity", math.Inf(1), MaxCoord, true},
		{"negative infinity", math.Inf(-1), -MaxCoord, true},
		{"nan", math.NaN(), 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CoordFromFloat(tc.in)
			if got != tc.expected || ok != tc.ok {
				t.Errorf("CoordFromFloat(%v) = (%d, %v), expected (%d, %v)", tc.in, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestClampCoord(t *testing.T) {
	if got := ClampCoord(math.MaxInt); got != MaxCoord {
		t.Errorf("ClampCoord(MaxInt) = %d, expected %d", got, MaxCoord)
	}
	if got := ClampCoord(math.MinInt); got != -MaxCoord {
		t.Errorf("ClampCoord(MinInt) = %d, expected %d", got, -MaxCoord)
	}
	if got := ClampCoord(-40); got != -40 {
		t.Errorf("ClampCoord(-40) = %d, expected -40", got)
	}
}
