package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionStats are the final numbers reported when a run ends.
type SessionStats struct {
	Score          int
	Height         int
	PowerUpsUsed   int
	CoinsCollected int
}

// SessionOutcome is the result of closing a session.
type SessionOutcome struct {
	IsNewHighScore bool
	GlobalRank     int
}

// UserStats aggregates a user's history.
type UserStats struct {
	UserID         string
	HighScore      int
	TotalGames     int
	TotalContinues int
	UpdatedAt      time.Time
}

// LeaderboardEntry is one ranked row of the global leaderboard.
type LeaderboardEntry struct {
	Rank       int
	UserID     string
	HighScore  int
	TotalGames int
	LastPlayed time.Time
}

// CreateSession opens a new game session.
func (s *Store) CreateSession(sessionID, userID string) error {
	if _, err := s.db.Exec(
		`INSERT INTO game_sessions (id, user_id) VALUES (?, ?)`, sessionID, userID,
	); err != nil {
		return fmt.Errorf("storage: cannot create session: %w", err)
	}
	return nil
}

// SessionOpen reports whether the session exists for the user and has not ended.
func (s *Store) SessionOpen(sessionID, userID string) (bool, error) {
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM game_sessions WHERE id = ? AND user_id = ? AND ended_at IS NULL`,
		sessionID, userID,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return n > 0, nil
}

// EndSession closes an open session and folds its score into the user's
// stats. Unknown or already closed sessions return ErrNotFound.
func (s *Store) EndSession(sessionID, userID string, stats SessionStats) (SessionOutcome, error) {
	var out SessionOutcome

	tx, err := s.db.Begin()
	if err != nil {
		return out, fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(
		`UPDATE game_sessions
		 SET ended_at = CURRENT_TIMESTAMP, score = ?, height = ?, powerups_used = ?, coins_collected = ?
		 WHERE id = ? AND user_id = ? AND ended_at IS NULL`,
		stats.Score, stats.Height, stats.PowerUpsUsed, stats.CoinsCollected, sessionID, userID,
	)
	if err != nil {
		return out, fmt.Errorf("storage: cannot end session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return out, ErrNotFound
	}

	var prev sql.NullInt64
	err = tx.QueryRow(`SELECT high_score FROM user_stats WHERE user_id = ?`, userID).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return out, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	out.IsNewHighScore = !prev.Valid || int64(stats.Score) > prev.Int64

	if _, err := tx.Exec(
		`INSERT INTO user_stats (user_id, high_score, total_games) VALUES (?, ?, 1)
		 ON CONFLICT(user_id) DO UPDATE SET
			high_score = MAX(high_score, excluded.high_score),
			total_games = total_games + 1,
			updated_at = CURRENT_TIMESTAMP`,
		userID, stats.Score,
	); err != nil {
		return out, fmt.Errorf("storage: cannot update stats: %w", err)
	}

	if err := tx.QueryRow(
		`SELECT COUNT(*) + 1 FROM user_stats
		 WHERE high_score > (SELECT high_score FROM user_stats WHERE user_id = ?)`,
		userID,
	).Scan(&out.GlobalRank); err != nil {
		return out, fmt.Errorf("storage: cannot compute rank: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return out, fmt.Errorf("storage: cannot commit: %w", err)
	}
	return out, nil
}

// Stats returns a user's aggregate stats. Users who never played get zeros.
func (s *Store) Stats(userID string) (UserStats, error) {
	st := UserStats{UserID: userID}
	var updated any
	err := s.db.QueryRow(
		`SELECT high_score, total_games, total_continues, updated_at FROM user_stats WHERE user_id = ?`,
		userID,
	).Scan(&st.HighScore, &st.TotalGames, &st.TotalContinues, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	st.UpdatedAt = parseTime(updated)
	return st, nil
}

// Leaderboard returns users with a positive high score, best first.
func (s *Store) Leaderboard(limit, offset int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(
		`SELECT user_id, high_score, total_games, updated_at
		 FROM user_stats
		 WHERE high_score > 0
		 ORDER BY high_score DESC, user_id
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var updated any
		if err := rows.Scan(&e.UserID, &e.HighScore, &e.TotalGames, &updated); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Rank = offset + len(entries) + 1
		e.LastPlayed = parseTime(updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}
