package engine

import (
	"math"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// Canvas draws world-space shapes onto a cell screen. The world is
// measured in pixels; the canvas scales it to fit the screen and applies
// a translation stack for camera transforms.
type Canvas struct {
	screen *core.Screen
	sx, sy float64 // Cells per world pixel
	tx, ty float64 // Current translation in world pixels
	stack  [][2]float64
}

// NewCanvas maps a worldW×worldH viewport onto the whole screen.
func NewCanvas(screen *core.Screen, worldW, worldH float64) *Canvas {
	c := &Canvas{screen: screen}
	c.SetWorldSize(worldW, worldH)
	return c
}

// SetWorldSize updates the scale, e.g. after a terminal resize.
func (c *Canvas) SetWorldSize(worldW, worldH float64) {
	if worldW <= 0 || worldH <= 0 {
		c.sx, c.sy = 1, 1
		return
	}
	c.sx = float64(c.screen.Width()) / worldW
	c.sy = float64(c.screen.Height()) / worldH
}

// Screen returns the underlying buffer for screen-space drawing.
func (c *Canvas) Screen() *core.Screen {
	return c.screen
}

// Save pushes the current translation.
func (c *Canvas) Save() {
	c.stack = append(c.stack, [2]float64{c.tx, c.ty})
}

// Restore pops the last saved translation.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		c.tx, c.ty = 0, 0
		return
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.tx, c.ty = top[0], top[1]
}

// Translate shifts subsequent world drawing.
func (c *Canvas) Translate(dx, dy float64) {
	c.tx += dx
	c.ty += dy
}

// ToCell converts a world point to a screen cell.
func (c *Canvas) ToCell(x, y float64) (int, int) {
	return int(math.Floor((x + c.tx) * c.sx)), int(math.Floor((y + c.ty) * c.sy))
}

// cellRect converts a world box to cells, never smaller than one cell.
func (c *Canvas) cellRect(r core.RectF) core.Rect {
	x0, y0 := c.ToCell(r.X, r.Y)
	x1 := int(math.Round((r.Right() + c.tx) * c.sx))
	y1 := int(math.Round((r.Bottom() + c.ty) * c.sy))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

// FillRect fills a world box.
func (c *Canvas) FillRect(r core.RectF, fill rune, color core.Color) {
	c.screen.FillRect(c.cellRect(r), fill, color)
}

// Point draws one rune at a world point.
func (c *Canvas) Point(x, y float64, r rune, color core.Color) {
	cx, cy := c.ToCell(x, y)
	c.screen.SetColor(cx, cy, r, color)
}

// Text draws text horizontally centered on a world point.
func (c *Canvas) Text(x, y float64, text string, color core.Color) {
	cx, cy := c.ToCell(x, y)
	n := len([]rune(text))
	c.screen.DrawTextColor(cx-n/2, cy, text, color)
}
