package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/jumper.yaml
var defaultJumperYAML []byte

// DefaultJumperConfig returns the built-in configuration.
func DefaultJumperConfig() JumperConfig {
	return JumperConfig{
		Viewport: Viewport{Width: 400, Height: 800},
		Physics: Physics{
			Gravity:          800,
			JumpImpulse:      -500,
			SuperJumpImpulse: -800,
			MoveSpeed:        300,
			MaxFallSpeed:     600,
			SteerHold:        150 * time.Millisecond,
		},
		World: World{
			PlatformSpacing:  80,
			InitialPlatforms: 10,
			MovingBelow:      0.10,
			BreakableBelow:   0.15,
			SpringBelow:      0.18,
			CoinChance:       0.20,
			PowerUpChance:    0.05,
			CleanupMargin:    100,
		},
		PowerUps: PowerUpTuning{
			Rocket:          3 * time.Second,
			Magnet:          10 * time.Second,
			ScoreBoost:      15 * time.Second,
			SlowTime:        5 * time.Second,
			RocketVelocity:  -600,
			MagnetRadius:    150,
			MagnetPull:      0.1,
			ShieldTrigger:   50,
			ScoreMultiplier: 2,
			SlowTimeScale:   0.5,
		},
		Combo: Combo{
			Timeout:          2 * time.Second,
			PerfectThreshold: 100,
		},
		GameOver: GameOverConfig{
			Margin: 150,
			Settle: 100 * time.Millisecond,
		},
		Payments: Payments{
			Chain:          "hyperevm",
			Address:        "0x7a3f0c1e9b54d2a8e6f1c0b9d8a7e6f5c4b3a291",
			ContinueGwei:   1_000_000,
			PowerUpGwei:    500_000,
			BundleGwei:     1_500_000,
			DismissAfter:   3 * time.Second,
			ConfirmLookups: 1,
		},
		Backend: Backend{
			UserID:       "local",
			Timeout:      10 * time.Second,
			ReceiptTries: 5,
			ReceiptDelay: 2 * time.Second,
		},
		Audio: Audio{
			Enabled:    true,
			Volume:     0.5,
			SampleRate: 44100,
		},
	}
}
