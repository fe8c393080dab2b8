package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/storage"
)

// LedgerOptions configures payment verification.
type LedgerOptions struct {
	PaymentAddress string        // Transfers must be sent here
	ReceiptTries   int           // Receipt lookups before giving up
	ReceiptDelay   time.Duration // Fixed backoff between lookups
	Logger         *log.Logger
}

// Ledger is the backend's business logic over the SQLite store and a
// chain reader. It is safe for concurrent use.
type Ledger struct {
	store   *storage.Store
	chain   chain.Reader
	address string
	tries   int
	delay   time.Duration
	logger  *log.Logger

	newID    func() string
	newTimer func() backoff.Timer // nil result means a real timer
}

// NewLedger creates a ledger.
func NewLedger(store *storage.Store, reader chain.Reader, opts LedgerOptions) *Ledger {
	if opts.ReceiptTries <= 0 {
		opts.ReceiptTries = 5
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Ledger{
		store:    store,
		chain:    reader,
		address:  opts.PaymentAddress,
		tries:    opts.ReceiptTries,
		delay:    opts.ReceiptDelay,
		logger:   opts.Logger,
		newID:    func() string { return uuid.New().String() },
		newTimer: func() backoff.Timer { return nil },
	}
}

// errReceiptPending marks a receipt that exists but has not succeeded.
var errReceiptPending = errors.New("receipt not successful")

// StartSession opens a session and returns the user's inventory.
func (l *Ledger) StartSession(_ context.Context, userID string) (Session, error) {
	inv, err := l.store.EnsureInventory(userID, WelcomeBonus)
	if err != nil {
		return Session{}, fmt.Errorf("backend: start session: %w", err)
	}
	id := l.newID()
	if err := l.store.CreateSession(id, userID); err != nil {
		return Session{}, fmt.Errorf("backend: start session: %w", err)
	}
	l.logger.Info("session started", "user", userID, "session", id)
	return Session{ID: id, Inventory: inv}, nil
}

// EndSession records the final stats of a run.
func (l *Ledger) EndSession(_ context.Context, userID, sessionID string, stats EndStats) (EndResult, error) {
	if sessionID == "" || stats.Score < 0 || stats.Height < 0 {
		return EndResult{}, fmt.Errorf("%w: session id and non-negative score required", ErrInvalidRequest)
	}
	out, err := l.store.EndSession(sessionID, userID, storage.SessionStats{
		Score:          stats.Score,
		Height:         stats.Height,
		PowerUpsUsed:   stats.PowerUpsUsed,
		CoinsCollected: stats.CoinsCollected,
	})
	if errors.Is(err, storage.ErrNotFound) {
		return EndResult{}, fmt.Errorf("backend: end session %s: %w", sessionID, ErrSessionNotFound)
	}
	if err != nil {
		return EndResult{}, fmt.Errorf("backend: end session: %w", err)
	}
	l.logger.Info("session ended", "user", userID, "session", sessionID,
		"score", stats.Score, "rank", out.GlobalRank, "new_high", out.IsNewHighScore)
	return EndResult{Success: true, IsNewHighScore: out.IsNewHighScore, GlobalRank: out.GlobalRank}, nil
}

// Inventory returns the user's power-ups, granting the welcome bonus on first access.
func (l *Ledger) Inventory(_ context.Context, userID string) (core.Inventory, error) {
	inv, err := l.store.EnsureInventory(userID, WelcomeBonus)
	if err != nil {
		return core.Inventory{}, fmt.Errorf("backend: inventory: %w", err)
	}
	return inv, nil
}

// UsePowerUp consumes one power-up within an open session.
func (l *Ledger) UsePowerUp(_ context.Context, userID string, kind core.PowerUpKind, sessionID string) (UseResult, error) {
	if !core.Storable(kind) || sessionID == "" {
		return UseResult{}, fmt.Errorf("%w: cannot use %s", ErrInvalidRequest, kind)
	}
	open, err := l.store.SessionOpen(sessionID, userID)
	if err != nil {
		return UseResult{}, fmt.Errorf("backend: use power-up: %w", err)
	}
	if !open {
		return UseResult{}, fmt.Errorf("backend: use power-up: %w", ErrSessionNotFound)
	}

	remaining, err := l.store.UsePowerUp(userID, sessionID, kind)
	if errors.Is(err, storage.ErrInsufficient) {
		return UseResult{}, fmt.Errorf("backend: use %s: %w", kind, ErrInsufficientPowerUps)
	}
	if err != nil {
		return UseResult{}, fmt.Errorf("backend: use power-up: %w", err)
	}
	l.logger.Debug("power-up used", "user", userID, "kind", kind, "remaining", remaining)
	return UseResult{Success: true, Remaining: remaining}, nil
}

// VerifyPayment checks a transfer on chain and applies its credit once.
func (l *Ledger) VerifyPayment(ctx context.Context, userID string, req PaymentRequest) (Verification, error) {
	if req.Metadata.Chain == "" {
		req.Metadata.Chain = chain.HyperEVM
	}
	if req.TxHash == "" {
		return Verification{}, fmt.Errorf("%w: missing transaction hash", ErrInvalidRequest)
	}
	price, err := ExpectedPrice(req.Type, req.Metadata.Item, req.Metadata.Chain)
	if err != nil {
		return Verification{}, err
	}
	credit, err := Credit(req.Type, req.Metadata.Item)
	if err != nil {
		return Verification{}, err
	}

	seen, err := l.store.PaymentExists(req.TxHash)
	if err != nil {
		return Verification{}, fmt.Errorf("backend: verify payment: %w", err)
	}
	if seen {
		return Verification{}, fmt.Errorf("backend: tx %s: %w", req.TxHash, ErrDuplicatePayment)
	}

	receipt, err := l.lookupReceipt(ctx, req.Metadata.Chain, req.TxHash)
	if err != nil {
		return Verification{}, err
	}
	if !strings.EqualFold(receipt.To, l.address) {
		l.logger.Warn("payment to wrong address", "tx", req.TxHash, "to", receipt.To)
		return Verification{}, fmt.Errorf("backend: tx %s: recipient %s: %w", req.TxHash, receipt.To, ErrPaymentMismatch)
	}
	if receipt.Amount < price {
		l.logger.Warn("payment below price", "tx", req.TxHash, "amount", receipt.Amount, "expected", price)
		return Verification{}, fmt.Errorf("backend: tx %s: paid %s, expected %s: %w",
			req.TxHash, receipt.Amount, price, ErrPaymentMismatch)
	}

	err = l.store.RecordPayment(storage.Payment{
		TxHash:     req.TxHash,
		UserID:     userID,
		Type:       string(req.Type),
		Item:       req.Metadata.Item,
		Chain:      string(req.Metadata.Chain),
		AmountGwei: int64(receipt.Amount),
	}, credit)
	if errors.Is(err, storage.ErrDuplicate) {
		return Verification{}, fmt.Errorf("backend: tx %s: %w", req.TxHash, ErrDuplicatePayment)
	}
	if err != nil {
		return Verification{}, fmt.Errorf("backend: verify payment: %w", err)
	}

	inv, err := l.store.EnsureInventory(userID, WelcomeBonus)
	if err != nil {
		return Verification{}, fmt.Errorf("backend: verify payment: %w", err)
	}
	l.logger.Info("payment verified", "user", userID, "tx", req.TxHash, "type", req.Type, "item", req.Metadata.Item)
	return Verification{
		Success:   true,
		Verified:  true,
		Type:      req.Type,
		Item:      req.Metadata.Item,
		Inventory: inv,
	}, nil
}

// lookupReceipt retries a bounded number of times with a fixed backoff.
func (l *Ledger) lookupReceipt(ctx context.Context, c chain.Name, txHash string) (chain.Receipt, error) {
	attempt := 0
	lookup := func() (chain.Receipt, error) {
		attempt++
		r, err := l.chain.Receipt(ctx, c, txHash)
		if ctx.Err() != nil {
			return chain.Receipt{}, backoff.Permanent(ctx.Err())
		}
		if err == nil && !r.Success {
			err = errReceiptPending
		}
		return r, err
	}
	notify := func(err error, next time.Duration) {
		l.logger.Debug("receipt not ready", "tx", txHash, "attempt", attempt, "retry_in", next, "err", err)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(l.delay), uint64(l.tries-1)), ctx)

	r, err := backoff.RetryNotifyWithTimerAndData(lookup, policy, notify, l.newTimer())
	if ctx.Err() != nil {
		return chain.Receipt{}, fmt.Errorf("backend: tx %s: %w", txHash, ctx.Err())
	}
	if err != nil {
		return chain.Receipt{}, fmt.Errorf("backend: tx %s after %d attempts: %w", txHash, attempt, ErrPaymentNotFound)
	}
	return r, nil
}

// Payments returns the user's most recent verified payments, newest first.
func (l *Ledger) Payments(_ context.Context, userID string, limit int) ([]storage.Payment, error) {
	out, err := l.store.Payments(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("backend: payments: %w", err)
	}
	return out, nil
}

// Leaderboard returns ranked players with a positive high score.
func (l *Ledger) Leaderboard(_ context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	rows, err := l.store.Leaderboard(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("backend: leaderboard: %w", err)
	}
	out := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = LeaderboardEntry{
			Rank:       r.Rank,
			UserID:     r.UserID,
			Score:      r.HighScore,
			TotalGames: r.TotalGames,
			LastPlayed: r.LastPlayed,
		}
	}
	return out, nil
}

// Stats returns a user's aggregate history.
func (l *Ledger) Stats(_ context.Context, userID string) (Stats, error) {
	st, err := l.store.Stats(userID)
	if err != nil {
		return Stats{}, fmt.Errorf("backend: stats: %w", err)
	}
	return Stats{
		UserID:         userID,
		HighScore:      st.HighScore,
		TotalGames:     st.TotalGames,
		TotalContinues: st.TotalContinues,
	}, nil
}

// For binds the ledger to one user, yielding the client-side contract.
func (l *Ledger) For(userID string) Service {
	return userLedger{l: l, user: userID}
}

type userLedger struct {
	l    *Ledger
	user string
}

func (u userLedger) StartSession(ctx context.Context) (Session, error) {
	return u.l.StartSession(ctx, u.user)
}

func (u userLedger) EndSession(ctx context.Context, sessionID string, stats EndStats) (EndResult, error) {
	return u.l.EndSession(ctx, u.user, sessionID, stats)
}

func (u userLedger) Inventory(ctx context.Context) (core.Inventory, error) {
	return u.l.Inventory(ctx, u.user)
}

func (u userLedger) UsePowerUp(ctx context.Context, kind core.PowerUpKind, sessionID string) (UseResult, error) {
	return u.l.UsePowerUp(ctx, u.user, kind, sessionID)
}

func (u userLedger) VerifyPayment(ctx context.Context, req PaymentRequest) (Verification, error) {
	return u.l.VerifyPayment(ctx, u.user, req)
}

func (u userLedger) Leaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	return u.l.Leaderboard(ctx, limit, offset)
}

var _ Service = userLedger{}
