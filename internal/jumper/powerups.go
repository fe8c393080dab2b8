package jumper

import (
	"sort"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// ActivePowerUp is one running effect.
type ActivePowerUp struct {
	Kind      core.PowerUpKind
	Props     PowerUpProps
	StartedAt float64 // Manager clock, seconds

	expiry *engine.Timer
}

// PowerUpManager holds at most one active effect per kind and expires
// timed effects against its own clock, which only advances in Update.
type PowerUpManager struct {
	active map[core.PowerUpKind]*ActivePowerUp
	timers engine.Timers
	clock  float64
	tuning config.PowerUpTuning
	bus    *events.Bus
}

// NewPowerUpManager creates a manager with no active effects.
func NewPowerUpManager(tuning config.PowerUpTuning, bus *events.Bus) *PowerUpManager {
	return &PowerUpManager{
		active: make(map[core.PowerUpKind]*ActivePowerUp),
		tuning: tuning,
		bus:    bus,
	}
}

// Activate starts an effect, replacing a running one of the same kind
// and restarting its duration.
func (m *PowerUpManager) Activate(props PowerUpProps) {
	if old, ok := m.active[props.Kind]; ok {
		old.expiry.Cancel()
	}

	a := &ActivePowerUp{Kind: props.Kind, Props: props, StartedAt: m.clock}
	if props.Duration > 0 {
		kind := props.Kind
		a.expiry = m.timers.After(props.Duration, func() { m.Deactivate(kind) })
	}
	m.active[props.Kind] = a
	m.bus.Publish(events.PowerUpActivated{Kind: props.Kind, Duration: props.Duration})
}

// Deactivate ends an effect early. Unknown kinds are ignored.
func (m *PowerUpManager) Deactivate(kind core.PowerUpKind) {
	a, ok := m.active[kind]
	if !ok {
		return
	}
	a.expiry.Cancel()
	delete(m.active, kind)
	m.bus.Publish(events.PowerUpExpired{Kind: kind})
}

// IsActive reports whether kind is running.
func (m *PowerUpManager) IsActive(kind core.PowerUpKind) bool {
	_, ok := m.active[kind]
	return ok
}

// UseShield consumes an active shield, reporting whether there was one.
func (m *PowerUpManager) UseShield() bool {
	if !m.IsActive(core.PowerUpShield) {
		return false
	}
	m.Deactivate(core.PowerUpShield)
	return true
}

// ScoreMultiplier applies to coin awards.
func (m *PowerUpManager) ScoreMultiplier() float64 {
	if m.IsActive(core.PowerUpScoreBoost) {
		return m.tuning.ScoreMultiplier
	}
	return 1
}

// TimeScale applies to simulated entity time.
func (m *PowerUpManager) TimeScale() float64 {
	if m.IsActive(core.PowerUpSlowTime) {
		return m.tuning.SlowTimeScale
	}
	return 1
}

// Remaining returns the time left on kind; zero for untimed or inactive effects.
func (m *PowerUpManager) Remaining(kind core.PowerUpKind) time.Duration {
	a, ok := m.active[kind]
	if !ok || a.Props.Duration <= 0 {
		return 0
	}
	elapsed := time.Duration((m.clock - a.StartedAt) * float64(time.Second))
	return max(a.Props.Duration-elapsed, 0)
}

// Active returns the running effects in kind order.
func (m *PowerUpManager) Active() []ActivePowerUp {
	out := make([]ActivePowerUp, 0, len(m.active))
	for _, a := range m.active {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// ClearAll drops every effect and pending expiry without publishing.
func (m *PowerUpManager) ClearAll() {
	m.timers.Clear()
	clear(m.active)
}

// Update advances the expiry clock by dt seconds.
func (m *PowerUpManager) Update(dt float64) {
	m.clock += dt
	m.timers.Advance(dt)
}
