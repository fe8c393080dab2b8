// Package backend implements the session and payment API the game consumes:
// the Service contract, its in-process Ledger implementation, bearer-token
// auth, and an HTTP server and client speaking the same contract.
package backend

import (
	"context"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/core"
)

// Service is the backend capability set seen by one authenticated user.
// Every call may block on I/O and honours ctx cancellation.
type Service interface {
	StartSession(ctx context.Context) (Session, error)
	EndSession(ctx context.Context, sessionID string, stats EndStats) (EndResult, error)
	Inventory(ctx context.Context) (core.Inventory, error)
	UsePowerUp(ctx context.Context, kind core.PowerUpKind, sessionID string) (UseResult, error)
	VerifyPayment(ctx context.Context, req PaymentRequest) (Verification, error)
	Leaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error)
}

// Session is a freshly issued play-through.
type Session struct {
	ID        string         `json:"sessionId"`
	Inventory core.Inventory `json:"inventory"`
}

// EndStats are reported when a run ends.
type EndStats struct {
	Score          int `json:"score"`
	Height         int `json:"height"`
	PowerUpsUsed   int `json:"powerupsUsed"`
	CoinsCollected int `json:"coinsCollected"`
}

// EndResult tells the player how the run ranked.
type EndResult struct {
	Success        bool `json:"success"`
	IsNewHighScore bool `json:"isNewHighScore"`
	GlobalRank     int  `json:"globalRank"`
}

// UseResult confirms a consumed power-up.
type UseResult struct {
	Success   bool `json:"success"`
	Remaining int  `json:"remaining"`
}

// PaymentType is what a payment buys.
type PaymentType string

const (
	PaymentContinue PaymentType = "continue"
	PaymentPowerUp  PaymentType = "powerup"
)

// ItemBundle is the power-up item granting every kind at once.
const ItemBundle = "bundle"

// PaymentMetadata qualifies a payment.
type PaymentMetadata struct {
	Item  string     `json:"type,omitempty"` // Power-up kind or "bundle"
	Chain chain.Name `json:"chain,omitempty"`
	Score int        `json:"score,omitempty"` // Informational, for continues
}

// PaymentRequest asks the backend to verify an on-chain transfer.
type PaymentRequest struct {
	TxHash   string          `json:"txHash"`
	Type     PaymentType     `json:"type"`
	Metadata PaymentMetadata `json:"metadata"`
}

// Verification is the outcome of a successful payment check.
type Verification struct {
	Success   bool           `json:"success"`
	Verified  bool           `json:"verified"`
	Type      PaymentType    `json:"type"`
	Item      string         `json:"item,omitempty"`
	Inventory core.Inventory `json:"inventory"` // Inventory after crediting
}

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	UserID     string    `json:"userId"`
	Score      int       `json:"score"`
	TotalGames int       `json:"totalGames"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// Stats aggregates one user's history.
type Stats struct {
	UserID         string `json:"userId"`
	HighScore      int    `json:"highScore"`
	TotalGames     int    `json:"totalGames"`
	TotalContinues int    `json:"totalContinues"`
}
