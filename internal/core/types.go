package core

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Platform ticks per second
	Seed     int64 // RNG seed; 0 lets the platform pick one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the summary the platform reads after each step.
type GameState struct {
	Score    int  // Displayed score (height + coins + bonuses)
	GameOver bool // True while the game-over screen is shown
	Paused   bool
	Quit     bool // The game asked the platform to exit
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
