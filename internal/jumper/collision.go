package jumper

import (
	"math"

	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// checkCollisions resolves platform landings, coin pickups (with the
// magnet pull) and power-up pickups for the current frame.
func (g *Game) checkCollisions() {
	p := g.player
	if p.VY > 0 {
		g.checkLanding()
	}

	pb := p.Bounds()
	magnet := g.powerUps.IsActive(core.PowerUpMagnet)
	radius := g.cfg.PowerUps.MagnetRadius
	for _, c := range g.world.Coins {
		if c.Collected {
			continue
		}
		if magnet {
			d := math.Hypot(p.X-c.X, p.Y-c.Y)
			if d < radius {
				f := (1 - d/radius) * g.cfg.PowerUps.MagnetPull
				c.Pull((p.X-c.X)*f, (p.Y-c.Y)*f)
			}
		}
		if pb.Intersects(c.Bounds()) {
			g.collectCoin(c)
		}
	}

	for _, pu := range g.world.Pickups {
		if pu.Collected || !pb.Intersects(pu.Bounds()) {
			continue
		}
		pu.Collected = true
		g.bus.Publish(events.PowerUpCollected{Kind: pu.Kind})
		g.powerUps.Activate(Properties(pu.Kind, g.cfg.PowerUps))
	}
}

// checkLanding bounces a falling player off the first platform whose top
// band contains the player's feet. Platforms below the view are ignored.
func (g *Game) checkLanding() {
	p := g.player
	pb := p.Bounds()
	for _, plat := range g.world.Platforms {
		if plat.Destroyed {
			continue
		}
		b := plat.Bounds()
		if !g.camera.IsInView(b) && b.Top() > g.camera.Y {
			continue
		}
		if !(pb.Bottom() > b.Top() && pb.Bottom() < b.Bottom() && pb.OverlapsX(b)) {
			continue
		}

		vy := p.VY
		p.Y = b.Top() - p.H/2
		if plat.Kind == PlatformSpring {
			p.Jump(g.cfg.Physics.SuperJumpImpulse)
			g.bus.Publish(events.PlayerSprung{})
			g.bus.Publish(events.HapticTriggered{Kind: events.HapticHeavy})
		} else {
			p.Jump(g.cfg.Physics.JumpImpulse)
			g.bus.Publish(events.HapticTriggered{Kind: events.HapticLight})
		}

		feet := p.Y + p.H/2
		g.bus.Publish(events.ParticleBurst{Kind: events.ParticleJump, X: p.X, Y: feet})
		p.Land(vy, g.combo.IsPerfect(vy))
		g.bus.Publish(events.ParticleBurst{Kind: events.ParticleLand, X: p.X, Y: feet})

		plat.OnPlayerLand()
		if plat.Destroyed {
			g.bus.Publish(events.ParticleBurst{Kind: events.ParticleBreak, X: plat.X, Y: plat.Y})
		}

		if bonus := g.combo.Land(vy); bonus > 0 {
			g.bonusScore += float64(bonus)
			g.bus.Publish(events.ParticleBurst{Kind: events.ParticleCombo, X: p.X, Y: p.Y})
		}
		return
	}
}

func (g *Game) collectCoin(c *Coin) {
	c.Collected = true
	award := float64(c.Value) * g.powerUps.ScoreMultiplier() * g.combo.Multiplier()
	g.bonusScore += award
	g.coins++
	g.bus.Publish(events.CoinCollected{X: c.X, Y: c.Y, Value: c.Value, Awarded: award})
	g.bus.Publish(events.ParticleBurst{Kind: events.ParticleCoin, X: c.X, Y: c.Y})
}

// applyPowerUpEffects runs the per-frame rocket thrust and shield save.
func (g *Game) applyPowerUpEffects() {
	p := g.player
	if g.powerUps.IsActive(core.PowerUpRocket) {
		p.VY = math.Min(p.VY, g.cfg.PowerUps.RocketVelocity)
		g.bus.Publish(events.ParticleBurst{Kind: events.ParticleRocket, X: p.X, Y: p.Y + p.H/2})
	}

	bottom := g.camera.Y + g.cfg.Viewport.Height
	if p.Y > bottom-g.cfg.PowerUps.ShieldTrigger && p.VY > 0 && g.powerUps.UseShield() {
		p.Jump(g.cfg.Physics.SuperJumpImpulse)
		g.fell = false
		g.bus.Publish(events.HapticTriggered{Kind: events.HapticHeavy})
		g.bus.Publish(events.ParticleBurst{Kind: events.ParticleShieldBreak, X: p.X, Y: p.Y})
	}
	p.Shielded = g.powerUps.IsActive(core.PowerUpShield)
}

// checkFall breaks the combo once when the player drops out of view.
func (g *Game) checkFall() {
	p := g.player
	if g.fell || p.Bounds().Top() <= g.camera.Y+g.cfg.Viewport.Height {
		return
	}
	g.fell = true
	g.combo.Fall()
	g.bus.Publish(events.PlayerFell{})
}

// checkGameOver reports whether the player is past the fall margin. The
// first moments of a run are exempt while the player settles.
func (g *Game) checkGameOver() bool {
	if g.sessionTime <= g.cfg.GameOver.Settle.Seconds() {
		return false
	}
	return g.player.Y > g.camera.Y+g.cfg.Viewport.Height+g.cfg.GameOver.Margin
}
