// Package config provides YAML-based configuration loading for the jumper:
// physics, world generation, power-up tuning, payments and backend access.
package config

import (
	"errors"
	"fmt"
	"time"
)

// JumperConfig contains all tunable parameters of the game and its backend.
type JumperConfig struct {
	Viewport Viewport       `yaml:"viewport"`
	Physics  Physics        `yaml:"physics"`
	World    World          `yaml:"world"`
	PowerUps PowerUpTuning  `yaml:"powerups"`
	Combo    Combo          `yaml:"combo"`
	GameOver GameOverConfig `yaml:"game_over"`
	Payments Payments       `yaml:"payments"`
	Backend  Backend        `yaml:"backend"`
	Audio    Audio          `yaml:"audio"`
}

// Viewport is the visible slice of the world in pixels.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Physics defines player movement in pixels and seconds.
type Physics struct {
	Gravity          float64       `yaml:"gravity"`
	JumpImpulse      float64       `yaml:"jump_impulse"`
	SuperJumpImpulse float64       `yaml:"super_jump_impulse"` // Spring platforms and shield saves
	MoveSpeed        float64       `yaml:"move_speed"`
	MaxFallSpeed     float64       `yaml:"max_fall_speed"`
	SteerHold        time.Duration `yaml:"steer_hold"` // How long one key press keeps steering
}

// World defines procedural generation parameters.
type World struct {
	PlatformSpacing  float64 `yaml:"platform_spacing"`
	InitialPlatforms int     `yaml:"initial_platforms"`
	MovingBelow      float64 `yaml:"moving_below"`    // Cumulative draw thresholds
	BreakableBelow   float64 `yaml:"breakable_below"` //
	SpringBelow      float64 `yaml:"spring_below"`    //
	CoinChance       float64 `yaml:"coin_chance"`
	PowerUpChance    float64 `yaml:"powerup_chance"`
	CleanupMargin    float64 `yaml:"cleanup_margin"`
}

// PowerUpTuning defines effect strengths and durations.
type PowerUpTuning struct {
	Rocket          time.Duration `yaml:"rocket"`
	Magnet          time.Duration `yaml:"magnet"`
	ScoreBoost      time.Duration `yaml:"score_boost"`
	SlowTime        time.Duration `yaml:"slow_time"`
	RocketVelocity  float64       `yaml:"rocket_velocity"` // Minimum upward speed while boosting
	MagnetRadius    float64       `yaml:"magnet_radius"`
	MagnetPull      float64       `yaml:"magnet_pull"` // Fraction of remaining distance per frame
	ShieldTrigger   float64       `yaml:"shield_trigger"` // Distance above the view bottom
	ScoreMultiplier float64       `yaml:"score_multiplier"`
	SlowTimeScale   float64       `yaml:"slow_time_scale"`
}

// Combo defines streak detection.
type Combo struct {
	Timeout          time.Duration `yaml:"timeout"`
	PerfectThreshold float64       `yaml:"perfect_threshold"` // Max |vy| for a perfect landing
}

// GameOverConfig defines when a fall ends the run.
type GameOverConfig struct {
	Margin float64       `yaml:"margin"` // Pixels below the view bottom
	Settle time.Duration `yaml:"settle"` // Exempt window after start
}

// Payments defines client-side prices in gwei and UI timing.
type Payments struct {
	Chain          string        `yaml:"chain"`
	Address        string        `yaml:"address"`
	ContinueGwei   int64         `yaml:"continue_gwei"`
	PowerUpGwei    int64         `yaml:"powerup_gwei"`
	BundleGwei     int64         `yaml:"bundle_gwei"`
	DismissAfter   time.Duration `yaml:"dismiss_after"`
	ConfirmLookups int           `yaml:"confirm_lookups"` // Simulated chain confirmation lag
}

// Backend defines how the client reaches the session/payment API.
// An empty URL runs the ledger in-process against a local database.
type Backend struct {
	URL          string        `yaml:"url"`
	UserID       string        `yaml:"user_id"`
	Timeout      time.Duration `yaml:"timeout"`
	ReceiptTries int           `yaml:"receipt_tries"`
	ReceiptDelay time.Duration `yaml:"receipt_delay"`
}

// Audio controls sound effects.
type Audio struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"` // 0..1
	SampleRate int     `yaml:"sample_rate"`
}

// Validate reports the first value that would break the simulation.
func (c JumperConfig) Validate() error {
	switch {
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return errors.New("config: viewport must be positive")
	case c.Physics.Gravity <= 0:
		return errors.New("config: gravity must be positive")
	case c.Physics.JumpImpulse >= 0 || c.Physics.SuperJumpImpulse >= 0:
		return errors.New("config: jump impulses must be negative (upward)")
	case c.World.PlatformSpacing <= 0:
		return errors.New("config: platform spacing must be positive")
	case !(c.World.MovingBelow <= c.World.BreakableBelow && c.World.BreakableBelow <= c.World.SpringBelow && c.World.SpringBelow <= 1):
		return fmt.Errorf("config: platform thresholds must be cumulative, got %v/%v/%v",
			c.World.MovingBelow, c.World.BreakableBelow, c.World.SpringBelow)
	case c.Combo.Timeout <= 0:
		return errors.New("config: combo timeout must be positive")
	}
	return nil
}
