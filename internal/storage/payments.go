package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// Payment is a verified on-chain transfer.
type Payment struct {
	TxHash     string
	UserID     string
	Type       string // "continue" or "powerup"
	Item       string // Power-up kind or "bundle"; empty for continues
	Chain      string
	AmountGwei int64
	CreatedAt  time.Time
}

// PaymentExists reports whether txHash was already recorded.
func (s *Store) PaymentExists(txHash string) (bool, error) {
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE tx_hash = ?`, txHash,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("storage: cannot query transaction: %w", err)
	}
	return n > 0, nil
}

// RecordPayment stores a verified payment and applies its credit in one
// transaction. A repeated txHash returns ErrDuplicate and credits nothing.
// Continue payments also bump the user's continue counter.
func (s *Store) RecordPayment(p Payment, credit core.Inventory) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(
		`INSERT INTO transactions (tx_hash, user_id, type, item, chain, amount_gwei)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(tx_hash) DO NOTHING`,
		p.TxHash, p.UserID, p.Type, p.Item, p.Chain, p.AmountGwei,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicate
	}

	if credit.Total() > 0 {
		if _, err := tx.Exec(
			`INSERT INTO powerup_inventory (user_id, rocket, shield, magnet, slow_time)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
				rocket = rocket + excluded.rocket,
				shield = shield + excluded.shield,
				magnet = magnet + excluded.magnet,
				slow_time = slow_time + excluded.slow_time,
				updated_at = CURRENT_TIMESTAMP`,
			p.UserID, credit.Rocket, credit.Shield, credit.Magnet, credit.SlowTime,
		); err != nil {
			return fmt.Errorf("storage: cannot credit inventory: %w", err)
		}
	}

	if p.Type == "continue" {
		if _, err := tx.Exec(
			`INSERT INTO user_stats (user_id, total_continues) VALUES (?, 1)
			 ON CONFLICT(user_id) DO UPDATE SET
				total_continues = total_continues + 1,
				updated_at = CURRENT_TIMESTAMP`,
			p.UserID,
		); err != nil {
			return fmt.Errorf("storage: cannot count continue: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// Payments returns the most recent payments of a user.
func (s *Store) Payments(userID string, limit int) ([]Payment, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT tx_hash, user_id, type, item, chain, amount_gwei, created_at
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query transactions: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		var createdAt any
		if err := rows.Scan(&p.TxHash, &p.UserID, &p.Type, &p.Item, &p.Chain, &p.AmountGwei, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
