package jumper

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// Pickup offsets above the platform they spawn on.
const (
	coinLift   = 30
	pickupLift = 50
)

// worldPickups are the kinds that spawn as world pickups. Slow time is
// only available from the inventory.
var worldPickups = []core.PowerUpKind{
	core.PowerUpRocket, core.PowerUpShield, core.PowerUpMagnet, core.PowerUpScoreBoost,
}

// World generates and evicts platforms, coins and pickups above the
// camera. Every object it creates is registered with the engine.
type World struct {
	Platforms []*Platform
	Coins     []*Coin
	Pickups   []*Pickup

	// Frontier is the y of the next platform row to generate; it only
	// moves upward (decreases).
	Frontier float64

	cfg           config.World
	width, height float64
	rng           *rand.Rand
	engine        *engine.Engine
	bus           *events.Bus
}

// NewWorld creates an empty world over a width×height view.
func NewWorld(cfg config.World, width, height float64, rng *rand.Rand, eng *engine.Engine, bus *events.Bus) *World {
	return &World{cfg: cfg, width: width, height: height, rng: rng, engine: eng, bus: bus}
}

// PickPlatformKind maps one uniform draw in [0,1) to a platform kind.
func PickPlatformKind(r float64, cfg config.World) PlatformKind {
	switch {
	case r < cfg.MovingBelow:
		return PlatformMoving
	case r < cfg.BreakableBelow:
		return PlatformBreakable
	case r < cfg.SpringBelow:
		return PlatformSpring
	}
	return PlatformNormal
}

// Reset unregisters and forgets every generated object.
func (w *World) Reset() {
	for _, p := range w.Platforms {
		w.engine.Remove(p)
	}
	for _, c := range w.Coins {
		w.engine.Remove(c)
	}
	for _, p := range w.Pickups {
		w.engine.Remove(p)
	}
	w.Platforms, w.Coins, w.Pickups = nil, nil, nil
}

// CreateInitial lays out the starting column of normal platforms from
// the bottom of the view upward. The first platform is the lowest.
func (w *World) CreateInitial() {
	start := w.height - 100
	for i := 0; i < w.cfg.InitialPlatforms; i++ {
		y := start - float64(i)*w.cfg.PlatformSpacing
		w.addPlatform(w.randomX(), y, PlatformNormal)
	}
	w.Frontier = start - float64(w.cfg.InitialPlatforms)*w.cfg.PlatformSpacing
}

// SafePlatform places a normal platform centered at y and restarts
// generation one row above it.
func (w *World) SafePlatform(y float64) *Platform {
	p := w.addPlatform(w.width/2, y, PlatformNormal)
	w.Frontier = y - w.cfg.PlatformSpacing
	return p
}

// Spawn fills rows until the frontier is a full view above cameraY.
func (w *World) Spawn(cameraY float64) {
	for w.Frontier > cameraY-w.height {
		w.spawnRow(w.Frontier)
		w.Frontier -= w.cfg.PlatformSpacing
	}
}

func (w *World) spawnRow(y float64) {
	x := w.randomX()
	kind := PickPlatformKind(w.rng.Float64(), w.cfg)
	w.addPlatform(x, y, kind)

	// Both draws are taken even over breakable platforms so one seed
	// always yields the same layout.
	coinRoll := w.rng.Float64()
	if coinRoll < w.cfg.CoinChance && kind != PlatformBreakable {
		c := NewCoin(x, y-coinLift, w.rng.Float64()*2*math.Pi)
		w.Coins = append(w.Coins, c)
		w.engine.Add(c)
	}

	pickupRoll := w.rng.Float64()
	if pickupRoll < w.cfg.PowerUpChance && kind != PlatformBreakable {
		kind := worldPickups[w.rng.Intn(len(worldPickups))]
		p := NewPickup(x, y-pickupLift, kind, w.rng.Float64()*2*math.Pi)
		w.Pickups = append(w.Pickups, p)
		w.engine.Add(p)
		w.bus.Publish(events.PowerUpSpawned{Kind: kind})
	}
}

func (w *World) randomX() float64 {
	return w.rng.Float64()*(w.width-PlatformWidth) + PlatformWidth/2
}

func (w *World) addPlatform(x, y float64, kind PlatformKind) *Platform {
	p := NewPlatform(x, y, kind, w.bus)
	w.Platforms = append(w.Platforms, p)
	w.engine.Add(p)
	return p
}

// Cleanup evicts objects that fell below the view or were used up.
func (w *World) Cleanup(cameraY float64) {
	limit := cameraY + w.height + w.cfg.CleanupMargin
	gone := make(map[engine.Entity]bool)
	w.Platforms = evict(w.Platforms, gone, func(p *Platform) bool { return p.Y > limit || p.Destroyed })
	w.Coins = evict(w.Coins, gone, func(c *Coin) bool { return c.Y > limit || c.Collected })
	w.Pickups = evict(w.Pickups, gone, func(p *Pickup) bool { return p.Y > limit || p.Collected })
	if len(gone) > 0 {
		w.engine.RemoveFunc(func(e engine.Entity) bool { return gone[e] })
	}
}

// evict filters items in place and marks the dropped ones in gone.
func evict[T engine.Entity](items []T, gone map[engine.Entity]bool, drop func(T) bool) []T {
	kept := items[:0]
	for _, it := range items {
		if drop(it) {
			gone[it] = true
			continue
		}
		kept = append(kept, it)
	}
	clear(items[len(kept):])
	return kept
}
