// Package events defines the gameplay event union and the bus that fans
// events out from the simulation to cosmetic and bookkeeping subscribers.
package events

import (
	"time"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// Event is a sealed union: only types in this package implement it.
type Event interface {
	event()
}

// HapticKind is the strength of a haptic pulse.
type HapticKind int

const (
	HapticLight HapticKind = iota
	HapticHeavy
	HapticSuccess
	HapticError
)

func (h HapticKind) String() string {
	switch h {
	case HapticLight:
		return "light"
	case HapticHeavy:
		return "heavy"
	case HapticSuccess:
		return "success"
	case HapticError:
		return "error"
	default:
		return "unknown"
	}
}

// ParticleKind selects a particle effect.
type ParticleKind int

const (
	ParticleJump ParticleKind = iota
	ParticleLand
	ParticleCoin
	ParticleRocket
	ParticleShieldBreak
	ParticleBreak
	ParticleCombo
)

func (p ParticleKind) String() string {
	switch p {
	case ParticleJump:
		return "jump"
	case ParticleLand:
		return "land"
	case ParticleCoin:
		return "coin"
	case ParticleRocket:
		return "rocket"
	case ParticleShieldBreak:
		return "shield_break"
	case ParticleBreak:
		return "break"
	case ParticleCombo:
		return "combo"
	default:
		return "unknown"
	}
}

// GameStarted is published when play begins or resumes after a continue.
type GameStarted struct {
	Continued bool
}

func (GameStarted) event() {}

// GameOver is published when the player falls out of the world.
type GameOver struct {
	Score     int
	Height    int
	HighScore bool // Local best was beaten this run
}

func (GameOver) event() {}

// GamePaused is published when the player pauses.
type GamePaused struct{}

func (GamePaused) event() {}

// GameResumed is published when a pause ends.
type GameResumed struct{}

func (GameResumed) event() {}

// PlayerJumped fires on every jump, including spring and shield bounces.
type PlayerJumped struct {
	Velocity float64
}

func (PlayerJumped) event() {}

// PlayerLanded fires when the player touches down on a platform.
type PlayerLanded struct {
	VelocityY float64
	Perfect   bool
}

func (PlayerLanded) event() {}

// PlayerSprung fires when a spring platform launches the player.
type PlayerSprung struct{}

func (PlayerSprung) event() {}

// PlayerFell fires once when the player drops below the view.
type PlayerFell struct{}

func (PlayerFell) event() {}

// PlatformSpawned fires for each generated platform.
type PlatformSpawned struct {
	X, Y float64
	Kind string
}

func (PlatformSpawned) event() {}

// PlatformDestroyed fires when a breakable platform is broken.
type PlatformDestroyed struct {
	X, Y float64
}

func (PlatformDestroyed) event() {}

// CoinCollected reports a coin pickup and the points it was worth.
type CoinCollected struct {
	X, Y    float64
	Value   int
	Awarded float64
}

func (CoinCollected) event() {}

// PowerUpSpawned fires when a pickup is placed in the world.
type PowerUpSpawned struct {
	Kind core.PowerUpKind
}

func (PowerUpSpawned) event() {}

// PowerUpCollected fires when the player touches a pickup.
type PowerUpCollected struct {
	Kind core.PowerUpKind
}

func (PowerUpCollected) event() {}

// PowerUpActivated fires when an effect starts. Duration is zero for
// effects that last until consumed.
type PowerUpActivated struct {
	Kind     core.PowerUpKind
	Duration time.Duration
}

func (PowerUpActivated) event() {}

// PowerUpExpired fires when a timed effect runs out or is consumed.
type PowerUpExpired struct {
	Kind core.PowerUpKind
}

func (PowerUpExpired) event() {}

// PowerUpUsed fires when the player spends a held inventory power-up.
type PowerUpUsed struct {
	Kind core.PowerUpKind
}

func (PowerUpUsed) event() {}

// ComboIncreased fires on each perfect landing.
type ComboIncreased struct {
	Combo int
}

func (ComboIncreased) event() {}

// ComboMilestone carries the bonus awarded at a milestone combo.
type ComboMilestone struct {
	Combo int
	Bonus int
}

func (ComboMilestone) event() {}

// ComboBroken fires when a running combo resets to zero.
type ComboBroken struct {
	Combo int // Value before the reset
}

func (ComboBroken) event() {}

// ScoreUpdated fires when the displayed score changes.
type ScoreUpdated struct {
	Score int
}

func (ScoreUpdated) event() {}

// HighScoreBeaten fires the first time a run passes the stored best.
type HighScoreBeaten struct {
	Score int
}

func (HighScoreBeaten) event() {}

// HapticTriggered requests a haptic pulse.
type HapticTriggered struct {
	Kind HapticKind
}

func (HapticTriggered) event() {}

// ParticleBurst requests a particle effect at a world position.
type ParticleBurst struct {
	Kind ParticleKind
	X, Y float64
}

func (ParticleBurst) event() {}

// SessionStarted fires when the backend issues a session id.
type SessionStarted struct {
	SessionID string
}

func (SessionStarted) event() {}

// SessionEnded fires when the backend has recorded a finished run.
type SessionEnded struct {
	SessionID    string
	NewHighScore bool
	GlobalRank   int
}

func (SessionEnded) event() {}

// PaymentChanged fires on every payment flow transition.
type PaymentChanged struct {
	Phase   string
	Message string
}

func (PaymentChanged) event() {}
