package jumper

import (
	"math"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// Player dimensions and animation constants, in pixels and seconds.
const (
	PlayerWidth  = 40
	PlayerHeight = 48

	superJumpBelow = -700 // Jumps stronger than this get the big stretch
	scaleSpeed     = 12   // Lerp rate toward the target scale
	landingSquash  = 0.2  // Seconds the landing squash is held
	scaleSnap      = 0.02 // Distance at which the overshoot counts as reached
)

// Player is the jumping character. X and Y are the center of its box.
type Player struct {
	X, Y   float64
	VX, VY float64
	W, H   float64

	IsJumping bool
	Shielded  bool // Drawn with a shield ring

	ScaleX, ScaleY     float64 // Current squash/stretch
	targetSX, targetSY float64
	landingTimer       float64
	settling           bool

	physics config.Physics
	fieldW  float64 // Play-field width for horizontal clamping
	bus     *events.Bus
}

// NewPlayer creates a player at rest centered on (x, y).
func NewPlayer(x, y float64, phys config.Physics, fieldW float64, bus *events.Bus) *Player {
	return &Player{
		X: x, Y: y,
		W: PlayerWidth, H: PlayerHeight,
		ScaleX: 1, ScaleY: 1,
		targetSX: 1, targetSY: 1,
		physics: phys,
		fieldW:  fieldW,
		bus:     bus,
	}
}

// SetDirection steers the player: -1 left, 0 none, 1 right.
func (p *Player) SetDirection(dir int) {
	p.VX = float64(core.Clamp(dir, -1, 1)) * p.physics.MoveSpeed
}

// Jump launches the player upward with the given (negative) velocity.
func (p *Player) Jump(power float64) {
	p.VY = power
	p.IsJumping = true
	p.landingTimer = 0
	p.settling = false
	if power < superJumpBelow {
		p.targetSX, p.targetSY = 0.6, 1.6
	} else {
		p.targetSX, p.targetSY = 0.7, 1.4
	}
	p.bus.Publish(events.PlayerJumped{Velocity: power})
}

// Land plays the touchdown squash. vy is the falling speed at contact.
func (p *Player) Land(vy float64, perfect bool) {
	p.IsJumping = false
	p.landingTimer = landingSquash
	p.settling = false
	p.targetSX, p.targetSY = 1.5, 0.5
	p.bus.Publish(events.PlayerLanded{VelocityY: vy, Perfect: perfect})
}

// Update applies gravity, moves the player and animates its scale.
func (p *Player) Update(dt float64) {
	if p.landingTimer > 0 {
		p.landingTimer -= dt
		if p.landingTimer <= 0 {
			p.targetSX, p.targetSY = 0.95, 1.05
			p.settling = true
		}
	}

	p.VY = math.Min(p.VY+p.physics.Gravity*dt, p.physics.MaxFallSpeed)
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.X = core.ClampF(p.X, p.W/2, p.fieldW-p.W/2)

	if p.VY > 0 {
		p.IsJumping = true
	}

	k := math.Min(scaleSpeed*dt, 1)
	p.ScaleX = core.Lerp(p.ScaleX, p.targetSX, k)
	p.ScaleY = core.Lerp(p.ScaleY, p.targetSY, k)

	// The overshoot after a landing relaxes back to rest once reached.
	if p.settling && math.Abs(p.ScaleX-p.targetSX) < scaleSnap && math.Abs(p.ScaleY-p.targetSY) < scaleSnap {
		p.settling = false
		p.targetSX, p.targetSY = 1, 1
	}
}

// Bounds is the unscaled hitbox; squash/stretch is visual only.
func (p *Player) Bounds() core.RectF {
	return core.CenteredRect(p.X, p.Y, p.W, p.H)
}

// Render draws the body at its animated scale, anchored at the feet.
func (p *Player) Render(c *engine.Canvas) {
	w, h := p.W*p.ScaleX, p.H*p.ScaleY
	feet := p.Y + p.H/2
	body := core.RectF{X: p.X - w/2, Y: feet - h, W: w, H: h}
	c.FillRect(body, '█', core.ColorMatcha)
	c.Point(p.X, feet-h*0.7, '•', core.ColorBrightWhite)

	if p.Shielded {
		c.Point(body.Left()-4, p.Y, '(', core.ColorBrightBlue)
		c.Point(body.Right()+4, p.Y, ')', core.ColorBrightBlue)
	}
}

var _ engine.Entity = (*Player)(nil)
