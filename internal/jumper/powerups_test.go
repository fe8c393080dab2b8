package jumper

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

func newTestPowerUps(t *testing.T) (*PowerUpManager, config.PowerUpTuning, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	tuning := config.DefaultJumperConfig().PowerUps
	return NewPowerUpManager(tuning, bus), tuning, bus
}

func stepPowerUps(m *PowerUpManager, seconds float64) {
	for ; seconds > 1e-9; seconds -= 0.5 {
		m.Update(min(0.5, seconds))
	}
}

func TestPowerUpExpires(t *testing.T) {
	m, tuning, bus := newTestPowerUps(t)
	var expired []core.PowerUpKind
	events.On(bus, func(e events.PowerUpExpired) { expired = append(expired, e.Kind) })

	m.Activate(Properties(core.PowerUpRocket, tuning))
	stepPowerUps(m, 2.5)
	if !m.IsActive(core.PowerUpRocket) {
		t.Fatal("rocket expired before its 3s duration")
	}
	stepPowerUps(m, 1)
	if m.IsActive(core.PowerUpRocket) {
		t.Fatal("rocket still active after 3.5s")
	}
	if len(expired) != 1 || expired[0] != core.PowerUpRocket {
		t.Errorf("PowerUpExpired = %v, want [rocket]", expired)
	}
}

func TestPowerUpReactivationRestartsWindow(t *testing.T) {
	m, tuning, bus := newTestPowerUps(t)
	expired := 0
	events.On(bus, func(events.PowerUpExpired) { expired++ })

	m.Activate(Properties(core.PowerUpRocket, tuning))
	stepPowerUps(m, 2)
	m.Activate(Properties(core.PowerUpRocket, tuning))
	stepPowerUps(m, 2)

	if !m.IsActive(core.PowerUpRocket) {
		t.Fatal("first expiry was not cancelled by reactivation")
	}
	if n := len(m.Active()); n != 1 {
		t.Errorf("Active() has %d records, want 1", n)
	}
	if rem := m.Remaining(core.PowerUpRocket); rem != time.Second {
		t.Errorf("Remaining(rocket) = %v, want 1s", rem)
	}

	stepPowerUps(m, 1.5)
	if m.IsActive(core.PowerUpRocket) {
		t.Error("rocket still active after restarted window")
	}
	if expired != 1 {
		t.Errorf("PowerUpExpired published %d times, want 1", expired)
	}
}

func TestActiveNeverDuplicatesKind(t *testing.T) {
	m, tuning, _ := newTestPowerUps(t)
	kinds := []core.PowerUpKind{
		core.PowerUpMagnet, core.PowerUpRocket, core.PowerUpMagnet,
		core.PowerUpShield, core.PowerUpRocket, core.PowerUpShield, core.PowerUpSlowTime,
	}
	for _, k := range kinds {
		m.Activate(Properties(k, tuning))
		m.Update(0.1)

		seen := make(map[core.PowerUpKind]bool)
		for _, a := range m.Active() {
			if seen[a.Kind] {
				t.Fatalf("Active() lists %v twice", a.Kind)
			}
			seen[a.Kind] = true
		}
	}
	if n := len(m.Active()); n != 4 {
		t.Errorf("Active() has %d records, want 4", n)
	}
}

func TestShieldConsumedOnce(t *testing.T) {
	m, tuning, _ := newTestPowerUps(t)

	if m.UseShield() {
		t.Fatal("UseShield() = true without a shield")
	}
	m.Activate(Properties(core.PowerUpShield, tuning))
	stepPowerUps(m, 60)
	if !m.IsActive(core.PowerUpShield) {
		t.Fatal("shield expired on its own")
	}

	if !m.UseShield() {
		t.Fatal("first UseShield() = false")
	}
	for i := 0; i < 3; i++ {
		if m.UseShield() {
			t.Fatalf("UseShield() call %d = true after consumption", i+2)
		}
	}

	m.Activate(Properties(core.PowerUpShield, tuning))
	if !m.UseShield() {
		t.Error("UseShield() = false after reactivation")
	}
}

func TestPowerUpModifiers(t *testing.T) {
	m, tuning, _ := newTestPowerUps(t)
	if m.ScoreMultiplier() != 1 || m.TimeScale() != 1 {
		t.Fatalf("idle modifiers = %v, %v, want 1, 1", m.ScoreMultiplier(), m.TimeScale())
	}

	m.Activate(Properties(core.PowerUpScoreBoost, tuning))
	m.Activate(Properties(core.PowerUpSlowTime, tuning))
	if m.ScoreMultiplier() != tuning.ScoreMultiplier {
		t.Errorf("ScoreMultiplier() = %v, want %v", m.ScoreMultiplier(), tuning.ScoreMultiplier)
	}
	if m.TimeScale() != tuning.SlowTimeScale {
		t.Errorf("TimeScale() = %v, want %v", m.TimeScale(), tuning.SlowTimeScale)
	}

	stepPowerUps(m, 6)
	if m.TimeScale() != 1 {
		t.Error("slow time outlived its 5s duration")
	}
	if m.ScoreMultiplier() != tuning.ScoreMultiplier {
		t.Error("score boost ended before its 15s duration")
	}
}

func TestClearAllIsSilent(t *testing.T) {
	m, tuning, bus := newTestPowerUps(t)
	m.Activate(Properties(core.PowerUpMagnet, tuning))
	m.Activate(Properties(core.PowerUpShield, tuning))

	published := 0
	bus.Subscribe(func(events.Event) { published++ })
	m.ClearAll()
	stepPowerUps(m, 20)

	if len(m.Active()) != 0 {
		t.Errorf("Active() = %v after ClearAll", m.Active())
	}
	if published != 0 {
		t.Errorf("ClearAll published %d events", published)
	}
}

func TestPowerUpProperties(t *testing.T) {
	tuning := config.DefaultJumperConfig().PowerUps
	tests := []struct {
		kind core.PowerUpKind
		want time.Duration
	}{
		{core.PowerUpRocket, 3 * time.Second},
		{core.PowerUpShield, 0},
		{core.PowerUpMagnet, 10 * time.Second},
		{core.PowerUpScoreBoost, 15 * time.Second},
		{core.PowerUpSlowTime, 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := Properties(tt.kind, tuning)
			if p.Kind != tt.kind || p.Duration != tt.want {
				t.Errorf("Properties(%v) = %+v, want duration %v", tt.kind, p, tt.want)
			}
		})
	}
}
