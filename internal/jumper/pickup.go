package jumper

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
)

const (
	PickupSize = 30

	pickupFloatAmount = 8
	pickupFloatSpeed  = 3
)

// PowerUpProps is the static description of a power-up kind.
type PowerUpProps struct {
	Kind     core.PowerUpKind
	Name     string
	Glyph    rune
	Color    core.Color
	Duration time.Duration // Zero lasts until consumed
}

// Properties returns the property table entry for kind.
func Properties(kind core.PowerUpKind, tuning config.PowerUpTuning) PowerUpProps {
	p := PowerUpProps{
		Kind:  kind,
		Name:  kind.Name(),
		Glyph: kind.Glyph(),
		Color: kind.Color(),
	}
	switch kind {
	case core.PowerUpRocket:
		p.Duration = tuning.Rocket
	case core.PowerUpMagnet:
		p.Duration = tuning.Magnet
	case core.PowerUpScoreBoost:
		p.Duration = tuning.ScoreBoost
	case core.PowerUpSlowTime:
		p.Duration = tuning.SlowTime
	}
	return p
}

// Pickup is a power-up floating in the world.
type Pickup struct {
	X, Y      float64
	W, H      float64
	Kind      core.PowerUpKind
	Collected bool

	baseY float64
	float float64
}

// NewPickup creates a pickup bobbing around (x, y).
func NewPickup(x, y float64, kind core.PowerUpKind, phase float64) *Pickup {
	return &Pickup{
		X: x, Y: y,
		W: PickupSize, H: PickupSize,
		Kind:  kind,
		baseY: y,
		float: phase,
	}
}

func (p *Pickup) Update(dt float64) {
	if p.Collected {
		return
	}
	p.float += dt * pickupFloatSpeed
	p.Y = p.baseY + math.Sin(p.float)*pickupFloatAmount
}

func (p *Pickup) Bounds() core.RectF {
	return core.CenteredRect(p.X, p.Y, p.W, p.H)
}

func (p *Pickup) Render(c *engine.Canvas) {
	if p.Collected {
		return
	}
	c.Text(p.X, p.Y, "["+string(p.Kind.Glyph())+"]", p.Kind.Color())
}

var _ engine.Entity = (*Pickup)(nil)
