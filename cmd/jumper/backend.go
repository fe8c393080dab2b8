package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/platform/tui"
	"github.com/vovakirdan/tui-jumper/internal/storage"
)

// Environment variables read by the commands.
const (
	envAuthSecret     = "JUMPER_AUTH_SECRET"
	envPaymentAddress = "JUMPER_PAYMENT_ADDRESS"
	envToken          = "JUMPER_TOKEN"
)

// tokenTTL is the lifetime of tokens minted by the CLI.
const tokenTTL = time.Hour

// localBackend is the in-process ledger over the local database.
type localBackend struct {
	store  *storage.Store
	chain  *chain.Chain
	ledger *backend.Ledger
}

// openLocalBackend opens the database at --db with a simulated chain.
func openLocalBackend(cfg config.JumperConfig, logger *log.Logger) (*localBackend, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	c := chain.New(cfg.Payments.ConfirmLookups)
	ledger := backend.NewLedger(store, c, backend.LedgerOptions{
		PaymentAddress: cfg.Payments.Address,
		ReceiptTries:   cfg.Backend.ReceiptTries,
		ReceiptDelay:   cfg.Backend.ReceiptDelay,
		Logger:         logger,
	})
	return &localBackend{store: store, chain: c, ledger: ledger}, nil
}

// wallet returns a wallet for user that sends from a stable address.
func (b *localBackend) wallet(user string) *chain.LocalWallet {
	return chain.NewLocalWallet(b.chain, walletAddress(user))
}

func (b *localBackend) Close() error {
	return b.store.Close()
}

// walletAddress derives a fake but stable sending address from a user name.
func walletAddress(user string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("jumper:"+user))
	return "0x" + strings.ReplaceAll(id.String(), "-", "")
}

// remoteTokens picks how the client authenticates: a fixed token from the
// environment, or tokens minted locally with the shared secret.
func remoteTokens(user string) (backend.TokenSource, error) {
	if tok := os.Getenv(envToken); tok != "" {
		return backend.TokenFunc(func(context.Context) (string, error) { return tok, nil }), nil
	}
	secret := os.Getenv(envAuthSecret)
	if secret == "" {
		return nil, fmt.Errorf("backend.url is set but neither %s nor %s is", envToken, envAuthSecret)
	}
	issuer := backend.NewTokenIssuer([]byte(secret), tokenTTL)
	return backend.NewCachedTokenSource(backend.IssuerSource(issuer, user)), nil
}

// connection is what a local player talks to.
type connection struct {
	service backend.Service
	board   tui.LeaderboardSource
	wallet  chain.Wallet // nil when payments cannot reach the backend's chain
	close   func() error
}

// connect opens the local ledger, or a client when backend.url is set.
// A remote backend verifies against its own chain, so no wallet is given.
func connect(cfg config.JumperConfig, logger *log.Logger) (*connection, error) {
	user := cfg.Backend.UserID
	if user == "" {
		return nil, errors.New("backend.user_id is empty")
	}

	if cfg.Backend.URL != "" {
		tokens, err := remoteTokens(user)
		if err != nil {
			return nil, err
		}
		client := backend.NewClient(cfg.Backend.URL, tokens, cfg.Backend.Timeout)
		return &connection{
			service: client,
			board:   client,
			close:   func() error { return nil },
		}, nil
	}

	local, err := openLocalBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &connection{
		service: local.ledger.For(user),
		board:   local.ledger,
		wallet:  local.wallet(user),
		close:   local.Close,
	}, nil
}
