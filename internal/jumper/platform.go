package jumper

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// Platform dimensions and motion, in pixels and seconds.
const (
	PlatformWidth  = 70
	PlatformHeight = 15

	movingSpeed = 100 // Horizontal speed of moving platforms
	movingRange = 50  // Travel either side of the spawn x
	springRate  = 15  // Bounce phase advance per second
)

// PlatformKind selects platform behavior.
type PlatformKind int

const (
	PlatformNormal PlatformKind = iota
	PlatformMoving
	PlatformBreakable
	PlatformSpring
)

func (k PlatformKind) String() string {
	switch k {
	case PlatformNormal:
		return "normal"
	case PlatformMoving:
		return "moving"
	case PlatformBreakable:
		return "breakable"
	case PlatformSpring:
		return "spring"
	default:
		return "unknown"
	}
}

// Platform is a ledge the player bounces off.
type Platform struct {
	X, Y      float64
	W, H      float64
	Kind      PlatformKind
	Destroyed bool

	vx, minX, maxX float64      // Moving platforms only
	bounce         *gween.Tween // Spring animation phase, nil when idle
	phase          float64
	bus            *events.Bus
}

// NewPlatform creates a platform centered on (x, y).
func NewPlatform(x, y float64, kind PlatformKind, bus *events.Bus) *Platform {
	p := &Platform{
		X: x, Y: y,
		W: PlatformWidth, H: PlatformHeight,
		Kind: kind,
		bus:  bus,
	}
	if kind == PlatformMoving {
		p.vx = movingSpeed
		p.minX = x - movingRange
		p.maxX = x + movingRange
	}
	bus.Publish(events.PlatformSpawned{X: x, Y: y, Kind: kind.String()})
	return p
}

// Update moves moving platforms and advances the spring animation.
func (p *Platform) Update(dt float64) {
	if p.Kind == PlatformMoving && !p.Destroyed {
		p.X += p.vx * dt
		if p.X <= p.minX || p.X >= p.maxX {
			p.X = core.ClampF(p.X, p.minX, p.maxX)
			p.vx = -p.vx
		}
	}

	if p.bounce != nil {
		v, done := p.bounce.Update(float32(dt))
		p.phase = float64(v)
		if done {
			p.bounce = nil
			p.phase = 0
		}
	}
}

// OnPlayerLand breaks breakable platforms and starts the spring bounce.
func (p *Platform) OnPlayerLand() {
	switch p.Kind {
	case PlatformBreakable:
		if !p.Destroyed {
			p.Destroyed = true
			p.bus.Publish(events.PlatformDestroyed{X: p.X, Y: p.Y})
		}
	case PlatformSpring:
		p.bounce = gween.New(0, 2*math.Pi, 2*math.Pi/springRate, ease.Linear)
		p.phase = 0
	}
}

// Bouncing reports whether the spring animation is playing.
func (p *Platform) Bouncing() bool {
	return p.bounce != nil
}

// Bounds returns the platform box.
func (p *Platform) Bounds() core.RectF {
	return core.CenteredRect(p.X, p.Y, p.W, p.H)
}

// Render draws the platform; springs squash while bouncing.
func (p *Platform) Render(c *engine.Canvas) {
	if p.Destroyed {
		return
	}
	b := p.Bounds()
	switch p.Kind {
	case PlatformMoving:
		c.FillRect(b, '=', core.ColorBrightBlue)
	case PlatformBreakable:
		c.FillRect(b, '%', core.ColorBrown)
	case PlatformSpring:
		s := math.Sin(p.phase) * 0.2
		b = core.CenteredRect(p.X, p.Y, p.W*(1+s), p.H*(1-s))
		c.FillRect(b, '▀', core.ColorBrightYellow)
		c.Point(p.X, b.Top()-2, 'z', core.ColorYellow)
	default:
		c.FillRect(b, '▀', core.ColorBrightGreen)
	}
}

var _ engine.Entity = (*Platform)(nil)
