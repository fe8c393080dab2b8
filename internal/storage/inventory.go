package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// inventoryColumns maps each storable kind to its column.
// Queries only ever interpolate values from this table.
var inventoryColumns = map[core.PowerUpKind]string{
	core.PowerUpRocket:   "rocket",
	core.PowerUpShield:   "shield",
	core.PowerUpMagnet:   "magnet",
	core.PowerUpSlowTime: "slow_time",
}

func columnFor(kind core.PowerUpKind) (string, error) {
	col, ok := inventoryColumns[kind]
	if !ok {
		return "", fmt.Errorf("storage: %s cannot be stored", kind)
	}
	return col, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func readInventory(q querier, userID string) (core.Inventory, error) {
	var inv core.Inventory
	err := q.QueryRow(
		`SELECT rocket, shield, magnet, slow_time FROM powerup_inventory WHERE user_id = ?`,
		userID,
	).Scan(&inv.Rocket, &inv.Shield, &inv.Magnet, &inv.SlowTime)
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotFound
	}
	if err != nil {
		return inv, fmt.Errorf("storage: cannot query inventory: %w", err)
	}
	return inv, nil
}

// Inventory returns the user's inventory, or ErrNotFound if they have none yet.
func (s *Store) Inventory(userID string) (core.Inventory, error) {
	return readInventory(s.db, userID)
}

// EnsureInventory returns the user's inventory, creating it with the
// welcome grant on first access.
func (s *Store) EnsureInventory(userID string, welcome core.Inventory) (core.Inventory, error) {
	_, err := s.db.Exec(
		`INSERT INTO powerup_inventory (user_id, rocket, shield, magnet, slow_time)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID, welcome.Rocket, welcome.Shield, welcome.Magnet, welcome.SlowTime,
	)
	if err != nil {
		return core.Inventory{}, fmt.Errorf("storage: cannot create inventory: %w", err)
	}
	return readInventory(s.db, userID)
}

// UsePowerUp consumes one power-up of kind for the session and logs the use.
// It returns ErrInsufficient when the user holds none.
func (s *Store) UsePowerUp(userID, sessionID string, kind core.PowerUpKind) (int, error) {
	col, err := columnFor(kind)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(
		`UPDATE powerup_inventory SET `+col+` = `+col+` - 1, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND `+col+` > 0`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot decrement %s: %w", col, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrInsufficient
	}

	if _, err := tx.Exec(
		`INSERT INTO powerup_usage (user_id, session_id, powerup_type) VALUES (?, ?, ?)`,
		userID, sessionID, kind.String(),
	); err != nil {
		return 0, fmt.Errorf("storage: cannot log usage: %w", err)
	}

	inv, err := readInventory(tx, userID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return inv.Count(kind), nil
}

// UsageCount returns how many power-ups were consumed in a session.
func (s *Store) UsageCount(sessionID string) (int, error) {
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM powerup_usage WHERE session_id = ?`, sessionID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count usage: %w", err)
	}
	return n, nil
}
