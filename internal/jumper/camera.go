package jumper

import (
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
)

// Camera tracks the player upward only. Y is the world coordinate of the
// top of the view and never increases once following starts.
type Camera struct {
	X, Y          float64
	Width, Height float64
	target        interface{ Bounds() core.RectF }
}

// NewCamera creates a camera over a width×height view.
func NewCamera(width, height float64) *Camera {
	return &Camera{Width: width, Height: height}
}

// Follow sets the tracked entity.
func (c *Camera) Follow(target interface{ Bounds() core.RectF }) {
	c.target = target
}

// Update latches the view upward so the target sits at mid-height.
func (c *Camera) Update() {
	if c.target == nil {
		return
	}
	_, ty := c.target.Bounds().Center()
	if want := ty - c.Height*0.5; want < c.Y {
		c.Y = want
	}
}

// IsInView reports whether b overlaps the visible vertical band.
func (c *Camera) IsInView(b core.RectF) bool {
	return b.Bottom() >= c.Y && b.Top() <= c.Y+c.Height
}

// ApplyTransform switches the canvas to world space.
func (c *Camera) ApplyTransform(cv *engine.Canvas) {
	cv.Save()
	cv.Translate(-c.X, -c.Y)
}

// RestoreTransform returns the canvas to screen space.
func (c *Camera) RestoreTransform(cv *engine.Canvas) {
	cv.Restore()
}
