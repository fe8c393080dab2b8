package core

import "testing"

func TestRectFIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     RectF
		expected bool
	}{
		{"overlapping", RectF{0, 0, 10, 10}, RectF{5, 5, 10, 10}, true},
		{"apart horizontally", RectF{0, 0, 10, 10}, RectF{15, 0, 10, 10}, false},
		{"apart vertically", RectF{0, 0, 10, 10}, RectF{0, 15, 10, 10}, false},
		{"touching edge", RectF{0, 0, 10, 10}, RectF{10, 0, 10, 10}, false},
		{"contained", RectF{0, 0, 20, 20}, RectF{5, 5, 5, 5}, true},
		{"sub-pixel overlap", RectF{0, 0, 10, 10}, RectF{9.5, 9.5, 10, 10}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCenteredRect(t *testing.T) {
	r := CenteredRect(100, 50, 40, 48)

	if r.Left() != 80 || r.Right() != 120 {
		t.Errorf("horizontal edges = (%v, %v), expected (80, 120)", r.Left(), r.Right())
	}
	if r.Top() != 26 || r.Bottom() != 74 {
		t.Errorf("vertical edges = (%v, %v), expected (26, 74)", r.Top(), r.Bottom())
	}
	if cx, cy := r.Center(); cx != 100 || cy != 50 {
		t.Errorf("Center() = (%v, %v), expected (100, 50)", cx, cy)
	}
}

func TestOverlapsX(t *testing.T) {
	a := RectF{0, 0, 10, 10}
	if !a.OverlapsX(RectF{5, 100, 10, 1}) {
		t.Error("OverlapsX should ignore vertical position")
	}
	if a.OverlapsX(RectF{10, 0, 5, 5}) {
		t.Error("touching horizontal edges should not overlap")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}

	if got := ClampF(15.5, 0, 10); got != 10 {
		t.Errorf("ClampF(15.5, 0, 10) = %v, expected 10", got)
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 10, 0.25); got != 2.5 {
		t.Errorf("Lerp(0, 10, 0.25) = %v, expected 2.5", got)
	}
	if got := Distance(0, 0, 3, 4); got != 5 {
		t.Errorf("Distance = %v, expected 5", got)
	}
}
