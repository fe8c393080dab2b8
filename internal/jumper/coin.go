package jumper

import (
	"math"

	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
)

const (
	CoinSize  = 20
	CoinValue = 10

	coinFloatAmount = 5
	coinFloatSpeed  = 2
)

// Coin is a collectible worth Value points before multipliers.
type Coin struct {
	X, Y      float64
	W, H      float64
	Value     int
	Collected bool

	baseY float64
	float float64 // Bob phase
}

// NewCoin creates a coin bobbing around (x, y), starting at the given phase.
func NewCoin(x, y, phase float64) *Coin {
	return &Coin{
		X: x, Y: y,
		W: CoinSize, H: CoinSize,
		Value: CoinValue,
		baseY: y,
		float: phase,
	}
}

// Pull moves the coin by (dx, dy), shifting the center it bobs around.
func (c *Coin) Pull(dx, dy float64) {
	c.X += dx
	c.baseY += dy
	c.Y += dy
}

func (c *Coin) Update(dt float64) {
	if c.Collected {
		return
	}
	c.float += dt * coinFloatSpeed
	c.Y = c.baseY + math.Sin(c.float)*coinFloatAmount
}

func (c *Coin) Bounds() core.RectF {
	return core.CenteredRect(c.X, c.Y, c.W, c.H)
}

func (c *Coin) Render(cv *engine.Canvas) {
	if c.Collected {
		return
	}
	glyph := 'o'
	if math.Cos(c.float*1.5) > 0 {
		glyph = '0'
	}
	cv.Point(c.X, c.Y, glyph, core.ColorBrightYellow)
}

var _ engine.Entity = (*Coin)(nil)
