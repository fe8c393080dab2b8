package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-jumper/internal/audio"
	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/events"
	"github.com/vovakirdan/tui-jumper/internal/haptics"
	"github.com/vovakirdan/tui-jumper/internal/highscore"
	"github.com/vovakirdan/tui-jumper/internal/journal"
	"github.com/vovakirdan/tui-jumper/internal/jumper"
	"github.com/vovakirdan/tui-jumper/internal/platform/tui"
)

// appName names the per-user data directory of the local high score.
const appName = "tui_jumper"

var (
	flagNoSound   bool
	flagNoJournal bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the jumper in this terminal.

Controls:
  A/D, Left/Right  - Steer
  Up/Down, Enter   - Menu navigation
  Space            - Use the held power-up
  Esc              - Back / dismiss
  P                - Pause
  R                - Restart (after game over)
  Tab (in menu)    - Leaderboard
  Ctrl+S           - Screenshot to ~/.jumper/screenshots
  Q/Ctrl+C         - Quit

Without backend.url in the config, sessions, inventory and payments are
kept in the local database given by --db, paid from a simulated wallet.

Examples:
  jumper play
  jumper play --seed 42
  jumper play --no-sound
  jumper play --config ./jumper.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoSound, "no-sound", false, "Disable sound effects")
	playCmd.Flags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record runs to ~/.jumper/journal")
}

func runPlay(_ *cobra.Command, _ []string) {
	if err := play(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func play() error {
	cfg := loadConfig()
	if flagNoSound {
		cfg.Audio.Enabled = false
	}

	// The terminal belongs to the game, so logs go to a file.
	logOut, closeLog := openLogFile()
	defer closeLog()
	logger := newLogger(logOut, "jumper")

	conn, err := connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer conn.close()

	bus := events.NewBus()

	player := audio.Open(cfg.Audio, logger)
	defer player.Close()
	defer player.Subscribe(bus)()

	bell := haptics.NewBell(os.Stdout, logger)
	defer bell.Subscribe(bus)()

	if !flagNoJournal {
		j := journal.New(filepath.Join(config.Dir(), "journal"), logger)
		j.Start(bus)
		defer j.Close()
	}

	game := jumper.New(jumper.Options{
		Config:     cfg,
		Bus:        bus,
		Backend:    conn.service,
		Wallet:     conn.wallet,
		HighScores: openHighScores(logger),
		Logger:     logger,
	})
	defer game.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	logger.Info("starting", "backend", cfg.Backend.URL, "user", cfg.Backend.UserID, "payments", conn.wallet != nil)
	return tui.Run(game, rc, tui.ModelOptions{Leaderboard: conn.board})
}

// openHighScores falls back to an in-memory store when the data directory
// is unusable.
func openHighScores(logger *log.Logger) jumper.HighScores {
	store, err := highscore.Open(appName, logger)
	if err != nil {
		logger.Warn("High score will not persist", "err", err)
		return &highscore.Memory{}
	}
	return store
}

// openLogFile opens ~/.jumper/jumper.log for appending.
func openLogFile() (io.Writer, func()) {
	dir := config.Dir()
	if dir == "" {
		return io.Discard, func() {}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "jumper.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard, func() {}
	}
	//nolint:errcheck // Best-effort close on exit
	return f, func() { f.Close() }
}
