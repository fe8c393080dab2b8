// Package storage provides SQLite-based persistence for the jumper backend:
// power-up inventories, verified payments, game sessions and player stats.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Sentinel errors returned by the ledger operations.
var (
	ErrNotFound     = errors.New("storage: not found")
	ErrDuplicate    = errors.New("storage: duplicate transaction")
	ErrInsufficient = errors.New("storage: insufficient power-ups")
)

// Store manages the SQLite database connection for the backend ledger.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows one writer; serializing connections avoids SQLITE_BUSY
	// when HTTP handlers write concurrently.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS powerup_inventory (
			user_id TEXT PRIMARY KEY,
			rocket INTEGER NOT NULL DEFAULT 0,
			shield INTEGER NOT NULL DEFAULT 0,
			magnet INTEGER NOT NULL DEFAULT 0,
			slow_time INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS transactions (
			tx_hash TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			item TEXT NOT NULL DEFAULT '',
			chain TEXT NOT NULL,
			amount_gwei INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);

		CREATE TABLE IF NOT EXISTS game_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			score INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			powerups_used INTEGER NOT NULL DEFAULT 0,
			coins_collected INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_game_sessions_user ON game_sessions(user_id);

		CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT PRIMARY KEY,
			high_score INTEGER NOT NULL DEFAULT 0,
			total_games INTEGER NOT NULL DEFAULT 0,
			total_continues INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_user_stats_top ON user_stats(high_score DESC);

		CREATE TABLE IF NOT EXISTS powerup_usage (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			powerup_type TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_powerup_usage_session ON powerup_usage(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime handles both time.Time and the string form SQLite returns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
