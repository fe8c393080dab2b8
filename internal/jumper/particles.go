package jumper

import (
	"math"
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

const particleGravity = 400

// spread selects how a burst distributes launch angles.
type spread int

const (
	spreadFan    spread = iota // Downward quarter arc
	spreadRing                 // Evenly around a circle
	spreadRandom               // Uniform random angles
	spreadThrust               // Straight down with jitter
)

// burstStyle describes one kind of particle burst.
type burstStyle struct {
	count      int
	spread     spread
	speed      float64 // Minimum launch speed
	speedRange float64
	lift       float64 // Added to vy after launch
	squashY    float64 // Vertical velocity scale, 0 means 1
	life       float64
	lifeRange  float64
	colors     []core.Color
}

var burstStyles = map[events.ParticleKind]burstStyle{
	events.ParticleJump:        {count: 5, spread: spreadFan, speed: 100, speedRange: 100, life: 0.3, lifeRange: 0.2, colors: []core.Color{core.ColorGray, core.ColorWhite}},
	events.ParticleLand:        {count: 8, spread: spreadRing, speed: 50, speedRange: 100, lift: -50, squashY: 0.5, life: 0.4, lifeRange: 0.2, colors: []core.Color{core.ColorGray, core.ColorWhite}},
	events.ParticleBreak:       {count: 12, spread: spreadRandom, speed: 100, speedRange: 200, lift: -100, life: 0.5, lifeRange: 0.3, colors: []core.Color{core.ColorRed, core.ColorBrightRed, core.ColorBrown}},
	events.ParticleCoin:        {count: 10, spread: spreadRing, speed: 100, speedRange: 50, life: 0.6, lifeRange: 0.3, colors: []core.Color{core.ColorYellow, core.ColorBrightYellow}},
	events.ParticleRocket:      {count: 3, spread: spreadThrust, speed: 200, speedRange: 100, life: 0.5, colors: []core.Color{core.ColorBrightRed, core.ColorOrange, core.ColorBrightYellow}},
	events.ParticleShieldBreak: {count: 20, spread: spreadRing, speed: 200, speedRange: 100, life: 0.8, colors: []core.Color{core.ColorBlue, core.ColorBrightBlue, core.ColorBrightCyan}},
	events.ParticleCombo:       {count: 15, spread: spreadRing, speed: 150, speedRange: 100, lift: -50, life: 1.0, colors: []core.Color{core.ColorOrange, core.ColorYellow, core.ColorBrightYellow}},
}

type particle struct {
	x, y   float64
	vx, vy float64
	color  core.Color
	fade   *gween.Tween // 1 → 0 over the particle's life
	alpha  float64
}

// Particles is a world entity holding short-lived cosmetic particles.
// It is fed by ParticleBurst events.
type Particles struct {
	items []*particle
	rng   *rand.Rand
}

// NewParticles creates an empty particle system.
func NewParticles(rng *rand.Rand) *Particles {
	return &Particles{rng: rng}
}

// Subscribe feeds bursts published on bus into the system.
func (ps *Particles) Subscribe(bus *events.Bus) (unsubscribe func()) {
	return events.On(bus, func(e events.ParticleBurst) {
		ps.Burst(e.Kind, e.X, e.Y)
	})
}

// Burst spawns the particles of one effect at (x, y).
func (ps *Particles) Burst(kind events.ParticleKind, x, y float64) {
	st, ok := burstStyles[kind]
	if !ok {
		return
	}
	for i := 0; i < st.count; i++ {
		speed := st.speed + ps.rng.Float64()*st.speedRange
		var vx, vy float64
		px := x
		switch st.spread {
		case spreadFan:
			a := math.Pi/4 + math.Pi/2*float64(i)/float64(st.count)
			vx, vy = math.Cos(a)*speed, math.Sin(a)*speed
		case spreadRing:
			a := 2 * math.Pi * float64(i) / float64(st.count)
			vx, vy = math.Cos(a)*speed, math.Sin(a)*speed
		case spreadRandom:
			a := ps.rng.Float64() * 2 * math.Pi
			vx, vy = math.Cos(a)*speed, math.Sin(a)*speed
		case spreadThrust:
			vx, vy = (ps.rng.Float64()-0.5)*100, speed
			px += (ps.rng.Float64() - 0.5) * 20
		}
		if st.squashY != 0 {
			vy *= st.squashY
		}
		vy += st.lift

		life := st.life + ps.rng.Float64()*st.lifeRange
		ps.items = append(ps.items, &particle{
			x: px, y: y, vx: vx, vy: vy,
			color: st.colors[ps.rng.Intn(len(st.colors))],
			fade:  gween.New(1, 0, float32(life), ease.OutQuad),
			alpha: 1,
		})
	}
}

// Len returns the number of live particles.
func (ps *Particles) Len() int {
	return len(ps.items)
}

// Clear drops every particle.
func (ps *Particles) Clear() {
	ps.items = nil
}

func (ps *Particles) Update(dt float64) {
	kept := ps.items[:0]
	for _, p := range ps.items {
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.vy += particleGravity * dt
		a, done := p.fade.Update(float32(dt))
		p.alpha = float64(a)
		if !done {
			kept = append(kept, p)
		}
	}
	clear(ps.items[len(kept):])
	ps.items = kept
}

func (ps *Particles) Render(c *engine.Canvas) {
	for _, p := range ps.items {
		glyph := '.'
		switch {
		case p.alpha > 0.66:
			glyph = '*'
		case p.alpha > 0.33:
			glyph = '+'
		}
		c.Point(p.x, p.y, glyph, p.color)
	}
}

// Bounds covers the whole world; particles are never culled.
func (ps *Particles) Bounds() core.RectF {
	return core.RectF{X: math.Inf(-1), Y: math.Inf(-1), W: math.Inf(1), H: math.Inf(1)}
}

var _ engine.Entity = (*Particles)(nil)
