// jumper is an endless vertical jumper for the terminal with a session and
// payment backend.
//
// Usage:
//
//	jumper play              - Play in this terminal
//	jumper serve             - Start SSH server for remote play
//	jumper api               - Start the session/payment HTTP API
//	jumper scores            - Show the global leaderboard
//	jumper prices            - Show what continues and power-ups cost
//	jumper replay <file>     - Print a recorded run journal
//	jumper payments [user]   - List verified payments
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible worlds
//	--db <path>         - Set database path (default: ~/.jumper/jumper.db)
//	--config <path>     - Use a custom jumper.yaml
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jumper/internal/config"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jumper",
	Short: "Matcha Jump - an endless jumper in your terminal",
	Long: `Matcha Jump is an endless vertical jumper for the terminal.
Bounce between platforms, grab coins and power-ups, and pay to continue
a run when you fall.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  api      - Start the session and payment API
  scores   - View the global leaderboard
  prices   - Show prices per chain
  replay   - Print a recorded run
  payments - List verified payments

Environment (also read from ./.env):
  JUMPER_AUTH_SECRET      - HMAC secret shared by the API and its clients
  JUMPER_PAYMENT_ADDRESS  - Address payments must be sent to
  JUMPER_TOKEN            - Fixed bearer token for a remote backend

Examples:
  jumper play
  jumper play --seed 42
  jumper serve --ssh :2222
  jumper api --listen :8080
  jumper scores --json`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// A missing .env is normal; a broken one is not.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		if _, err := log.ParseLevel(flagLogLevel); err != nil {
			return fmt.Errorf("invalid --log-level %q", flagLogLevel)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.jumper/jumper.db", "Path to the backend database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom jumper.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(paymentsCmd)
}

// newLogger builds a logger at the --log-level verbosity.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// loadConfig reads --config or the default search path, exiting on a bad file.
// JUMPER_PAYMENT_ADDRESS overrides payments.address for wallet and ledger alike.
func loadConfig() config.JumperConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if addr := os.Getenv(envPaymentAddress); addr != "" {
		cfg.Payments.Address = addr
	}
	return cfg
}
