package jumper

import (
	"math"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// ComboManager counts consecutive perfect landings. The streak survives
// ordinary landings but breaks on a fall or when Timeout passes without
// any landing.
type ComboManager struct {
	combo    int
	maxCombo int
	timer    float64 // Seconds until the streak breaks

	timeout   float64
	threshold float64
	bus       *events.Bus
}

// NewComboManager creates a manager with an empty streak.
func NewComboManager(cfg config.Combo, bus *events.Bus) *ComboManager {
	return &ComboManager{
		timeout:   cfg.Timeout.Seconds(),
		threshold: cfg.PerfectThreshold,
		bus:       bus,
	}
}

// IsPerfect reports whether a landing at vertical speed vy counts.
func (m *ComboManager) IsPerfect(vy float64) bool {
	return math.Abs(vy) < m.threshold
}

// Land registers a landing at vertical speed vy and returns the
// milestone bonus it earned, if any.
func (m *ComboManager) Land(vy float64) (bonus int) {
	m.timer = m.timeout
	if !m.IsPerfect(vy) {
		return 0
	}

	m.combo++
	m.maxCombo = max(m.maxCombo, m.combo)
	m.bus.Publish(events.ComboIncreased{Combo: m.combo})

	bonus = milestoneBonus(m.combo)
	if bonus > 0 {
		m.bus.Publish(events.ComboMilestone{Combo: m.combo, Bonus: bonus})
	}
	return bonus
}

// milestoneBonus is paid when the streak reaches exactly n.
func milestoneBonus(n int) int {
	switch {
	case n == 5:
		return 50
	case n == 10:
		return 100
	case n == 20:
		return 200
	case n > 20 && n%10 == 0:
		return n * 10
	}
	return 0
}

// Fall breaks the streak.
func (m *ComboManager) Fall() {
	m.breakCombo()
}

func (m *ComboManager) breakCombo() {
	if m.combo > 0 {
		m.bus.Publish(events.ComboBroken{Combo: m.combo})
	}
	m.combo = 0
	m.timer = 0
}

// Update counts down the streak timer by dt seconds of real time.
func (m *ComboManager) Update(dt float64) {
	if m.combo == 0 || m.timer <= 0 {
		return
	}
	m.timer -= dt
	if m.timer <= 0 {
		m.breakCombo()
	}
}

// Reset clears the current streak. The best streak is kept.
func (m *ComboManager) Reset() {
	m.combo = 0
	m.timer = 0
}

// Combo returns the current streak.
func (m *ComboManager) Combo() int { return m.combo }

// MaxCombo returns the best streak since the manager was created.
func (m *ComboManager) MaxCombo() int { return m.maxCombo }

// Timer returns the seconds left before the streak breaks.
func (m *ComboManager) Timer() float64 { return m.timer }

// Multiplier scales coin awards by streak length.
func (m *ComboManager) Multiplier() float64 {
	switch {
	case m.combo >= 20:
		return 3
	case m.combo >= 10:
		return 2
	case m.combo >= 5:
		return 1.5
	}
	return 1
}
