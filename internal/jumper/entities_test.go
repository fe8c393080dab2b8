package jumper

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

func newTestPlayer(t *testing.T) (*Player, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	return NewPlayer(200, 500, config.DefaultJumperConfig().Physics, 400, bus), bus
}

func TestPlayerFallSpeedCapped(t *testing.T) {
	p, _ := newTestPlayer(t)
	for i := 0; i < 200; i++ {
		p.Update(0.016)
		if p.VY > 600 {
			t.Fatalf("frame %d: VY = %v exceeds max fall speed", i, p.VY)
		}
	}
	if p.VY != 600 {
		t.Errorf("terminal VY = %v, want 600", p.VY)
	}
}

func TestPlayerStaysInField(t *testing.T) {
	tests := []struct {
		name string
		dir  int
		want float64
	}{
		{"left wall", -1, PlayerWidth / 2},
		{"right wall", 1, 400 - PlayerWidth/2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPlayer(t)
			p.SetDirection(tt.dir)
			for i := 0; i < 120; i++ {
				p.Update(0.016)
			}
			if p.X != tt.want {
				t.Errorf("X = %v, want %v", p.X, tt.want)
			}
		})
	}
}

func TestPlayerSetDirectionClamps(t *testing.T) {
	p, _ := newTestPlayer(t)
	p.SetDirection(5)
	if p.VX != 300 {
		t.Errorf("VX = %v, want 300", p.VX)
	}
	p.SetDirection(0)
	if p.VX != 0 {
		t.Errorf("VX = %v, want 0", p.VX)
	}
}

func TestPlayerJumpAndLand(t *testing.T) {
	p, bus := newTestPlayer(t)
	var jumped []float64
	var landed []events.PlayerLanded
	events.On(bus, func(e events.PlayerJumped) { jumped = append(jumped, e.Velocity) })
	events.On(bus, func(e events.PlayerLanded) { landed = append(landed, e) })

	p.Jump(-500)
	if p.VY != -500 || !p.IsJumping {
		t.Errorf("after Jump VY=%v jumping=%v", p.VY, p.IsJumping)
	}
	p.Land(80, true)
	if p.IsJumping {
		t.Error("still jumping after Land")
	}

	if len(jumped) != 1 || jumped[0] != -500 {
		t.Errorf("PlayerJumped = %v, want [-500]", jumped)
	}
	if len(landed) != 1 || landed[0].VelocityY != 80 || !landed[0].Perfect {
		t.Errorf("PlayerLanded = %+v", landed)
	}
}

func TestPlayerSquashSettles(t *testing.T) {
	p, _ := newTestPlayer(t)
	p.Land(300, false)
	p.Update(0.05)
	if p.ScaleX <= 1 || p.ScaleY >= 1 {
		t.Fatalf("no landing squash: scale = %v×%v", p.ScaleX, p.ScaleY)
	}
	for i := 0; i < 120; i++ {
		p.Update(0.016)
	}
	if d := p.ScaleX - 1; d > 0.01 || d < -0.01 {
		t.Errorf("ScaleX = %v after 2s, want ~1", p.ScaleX)
	}
	if d := p.ScaleY - 1; d > 0.01 || d < -0.01 {
		t.Errorf("ScaleY = %v after 2s, want ~1", p.ScaleY)
	}
}

func TestBreakablePlatform(t *testing.T) {
	bus := events.NewBus()
	destroyed := 0
	events.On(bus, func(events.PlatformDestroyed) { destroyed++ })

	p := NewPlatform(100, 100, PlatformBreakable, bus)
	p.OnPlayerLand()
	p.OnPlayerLand()
	if !p.Destroyed {
		t.Error("breakable platform survived a landing")
	}
	if destroyed != 1 {
		t.Errorf("PlatformDestroyed published %d times, want 1", destroyed)
	}
}

func TestSpringBounceEnds(t *testing.T) {
	p := NewPlatform(100, 100, PlatformSpring, events.NewBus())
	p.OnPlayerLand()
	if !p.Bouncing() {
		t.Fatal("spring not bouncing after a landing")
	}
	// One full phase at 15 rad/s takes about 0.42s.
	for i := 0; i < 20; i++ {
		p.Update(0.016)
	}
	if !p.Bouncing() {
		t.Error("bounce ended early")
	}
	for i := 0; i < 20; i++ {
		p.Update(0.016)
	}
	if p.Bouncing() {
		t.Error("bounce still playing after 0.64s")
	}
}

func TestMovingPlatformStaysInRange(t *testing.T) {
	p := NewPlatform(200, 100, PlatformMoving, events.NewBus())
	left, right := false, false
	for i := 0; i < 600; i++ {
		p.Update(0.016)
		if p.X < 150 || p.X > 250 {
			t.Fatalf("frame %d: X = %v outside [150, 250]", i, p.X)
		}
		left = left || p.X == 150
		right = right || p.X == 250
	}
	if !left || !right {
		t.Errorf("platform did not reach both ends: left=%v right=%v", left, right)
	}
}

func TestCoinPullMovesBobCenter(t *testing.T) {
	c := NewCoin(100, 100, 0)
	c.Pull(10, -20)
	for i := 0; i < 100; i++ {
		c.Update(0.016)
		if c.Y < 80-coinFloatAmount-1e-9 || c.Y > 80+coinFloatAmount+1e-9 {
			t.Fatalf("coin at y=%v drifted from its pulled center 80", c.Y)
		}
	}
	if c.X != 110 {
		t.Errorf("X = %v, want 110", c.X)
	}
}

func TestParticlesFollowBursts(t *testing.T) {
	bus := events.NewBus()
	ps := NewParticles(rand.New(rand.NewSource(1)))
	unsubscribe := ps.Subscribe(bus)

	bus.Publish(events.ParticleBurst{Kind: events.ParticleCoin, X: 10, Y: 10})
	if ps.Len() != 10 {
		t.Fatalf("Len() = %d after coin burst, want 10", ps.Len())
	}
	for i := 0; i < 100; i++ {
		ps.Update(0.016)
	}
	if ps.Len() != 0 {
		t.Errorf("Len() = %d after 1.6s, want 0", ps.Len())
	}

	unsubscribe()
	bus.Publish(events.ParticleBurst{Kind: events.ParticleJump})
	if ps.Len() != 0 {
		t.Errorf("burst delivered after unsubscribe")
	}
}
