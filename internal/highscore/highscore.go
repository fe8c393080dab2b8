// Package highscore keeps the player's local best score between runs.
package highscore

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/quasilyte/gdata"
)

// Key is the item name the score is saved under.
const Key = "high_score"

type record struct {
	Score int `json:"score"`
}

// Store persists the best score in the per-user data directory.
// Failures are logged and otherwise ignored.
type Store struct {
	m      *gdata.Manager
	logger *log.Logger
}

// Open creates a store for the named application.
func Open(appName string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("highscore: open: %w", err)
	}
	return &Store{m: m, logger: logger}, nil
}

// Load returns the saved score, or 0 when none is readable.
func (s *Store) Load() int {
	data, err := s.m.LoadItem(Key)
	if err != nil {
		s.logger.Warn("Could not load high score", "err", err)
		return 0
	}
	if len(data) == 0 {
		return 0
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		s.logger.Warn("Could not parse high score", "err", err)
		return 0
	}
	return max(0, r.Score)
}

// Save writes score.
func (s *Store) Save(score int) {
	data, err := json.Marshal(record{Score: score})
	if err != nil {
		s.logger.Warn("Could not encode high score", "err", err)
		return
	}
	if err := s.m.SaveItem(Key, data); err != nil {
		s.logger.Warn("Could not save high score", "err", err)
	}
}

// Memory is an in-process store, the fallback when the data directory
// cannot be opened.
type Memory struct {
	mu   sync.Mutex
	best int
}

// Load returns the last saved score.
func (m *Memory) Load() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best
}

// Save records score.
func (m *Memory) Save(score int) {
	m.mu.Lock()
	m.best = score
	m.mu.Unlock()
}
