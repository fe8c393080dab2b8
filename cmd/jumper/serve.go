package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/events"
	"github.com/vovakirdan/tui-jumper/internal/haptics"
	"github.com/vovakirdan/tui-jumper/internal/jumper"
	"github.com/vovakirdan/tui-jumper/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the jumper SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own run. The SSH user name is the player:
sessions, inventory, payments and the leaderboard live in the server's
database (--db), shared by all users. Payments are made from a simulated
wallet per user.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.jumper/host_key

Examples:
  jumper serve                           # Listen on :23234 with auto-generated key
  jumper serve --ssh :2222               # Listen on port 2222
  jumper serve --host-key ./my_host_key  # Use specific host key
  jumper serve --db ./jumper.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, "jumper-ssh")

	local, err := openLocalBackend(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()

	sessions := func(user string, out io.Writer) (*jumper.Game, func()) {
		bus := events.NewBus()
		bell := haptics.NewBell(out, logger)
		unsubscribe := bell.Subscribe(bus)

		game := jumper.New(jumper.Options{
			Config:     cfg,
			Bus:        bus,
			Backend:    local.ledger.For(user),
			Wallet:     local.wallet(user),
			HighScores: ledgerScores{ledger: local.ledger, user: user, logger: logger},
			Logger:     logger.With("user", user),
		})
		return game, func() {
			unsubscribe()
			game.Close()
		}
	}

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.TickRate = flagFPS
	sshCfg.Sessions = sessions
	sshCfg.Leaderboard = local.ledger
	sshCfg.Logger = logger

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting jumper SSH server on %s\n", sshCfg.Address)
	fmt.Println("Connect with: " + connectHint(sshCfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// ledgerScores reads an SSH player's best score from the shared ledger.
// The ledger records scores itself when a session ends, so Save does nothing.
type ledgerScores struct {
	ledger *backend.Ledger
	user   string
	logger *log.Logger
}

func (s ledgerScores) Load() int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := s.ledger.Stats(ctx, s.user)
	if err != nil {
		s.logger.Warn("Could not load high score", "user", s.user, "err", err)
		return 0
	}
	return stats.HighScore
}

func (ledgerScores) Save(int) {}

// connectHint is the ssh command line that reaches a server on addr.
// An empty or wildcard host is shown as localhost.
func connectHint(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ssh " + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if port == "22" {
		return "ssh " + host
	}
	return "ssh " + host + " -p " + port
}
