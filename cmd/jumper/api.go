package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-jumper/internal/backend"
)

var (
	flagListen string
	flagIssue  string
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the session and payment API",
	Long: `Serve the backend over HTTP for remote clients.

Routes:
  GET  /health
  GET  /api/leaderboard
  GET  /api/stats/{user}
  POST /api/verify-payment
  POST /api/game/start
  POST /api/game/end
  GET  /api/powerups/inventory
  POST /api/powerups/use

The POST routes and the inventory need a bearer token signed
with JUMPER_AUTH_SECRET. Clients holding the secret mint their own; others
can be handed one made with --issue.

Examples:
  JUMPER_AUTH_SECRET=s3cret jumper api
  jumper api --listen 127.0.0.1:9000 --db ./jumper.db
  jumper api --issue alice                # Print a token for alice and exit`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagListen, "listen", ":8080", "HTTP listen address (host:port)")
	apiCmd.Flags().StringVar(&flagIssue, "issue", "", "Print a bearer token for this user and exit")
}

func runAPI(_ *cobra.Command, _ []string) {
	secret := os.Getenv(envAuthSecret)
	if secret == "" {
		fmt.Fprintf(os.Stderr, "Error: %s is not set\n", envAuthSecret)
		os.Exit(1)
	}
	issuer := backend.NewTokenIssuer([]byte(secret), tokenTTL)

	if flagIssue != "" {
		tok, exp, err := issuer.Issue(flagIssue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		fmt.Fprintf(os.Stderr, "Expires %s\n", exp.Local().Format(time.RFC1123))
		return
	}

	if err := serveAPI(issuer); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func serveAPI(issuer *backend.TokenIssuer) error {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, "jumper-api")

	if cfg.Payments.Address == "" {
		return fmt.Errorf("no payment address: set payments.address or %s", envPaymentAddress)
	}

	local, err := openLocalBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer local.Close()

	handler, err := backend.NewServer(local.ledger, issuer, logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              flagListen,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	logger.Info("listening", "address", flagListen, "payments_to", cfg.Payments.Address)

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
