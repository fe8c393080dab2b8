package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/jumper"
)

// ModelOptions are the optional parts of a Model.
type ModelOptions struct {
	Leaderboard LeaderboardSource // Tab opens it from the menu when set
	Palette     *Palette
	OnQuit      func() // Called once when the program quits
}

// Model is the Bubble Tea model running one jumper game.
type Model struct {
	game       *jumper.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keys       *KeyMapper
	palette    *Palette
	boards     LeaderboardSource
	board      *ScoreboardModel // Open leaderboard, nil while playing
	onQuit     func()
	quitting   bool
}

// NewModel creates a Bubble Tea model for game.
func NewModel(game *jumper.Game, cfg core.RuntimeConfig, opts ModelOptions) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if opts.Palette == nil {
		opts.Palette = defaultPalette
	}
	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       NewKeyMapper(),
		palette:    opts.Palette,
		boards:     opts.Leaderboard,
		onQuit:     opts.OnQuit,
	}
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		return m.handleTick()

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		if m.board != nil {
			return m.updateBoard(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.board != nil {
			return m.updateBoard(msg)
		}
		return m.handleKey(msg)

	case leaderboardMsg:
		if m.board != nil {
			return m.updateBoard(msg)
		}
	}
	return m, nil
}

// handleKey processes keyboard input while the game owns the screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "tab":
		if m.boards != nil && m.game.Phase() == jumper.StateMenu {
			board := NewScoreboardModel(m.boards, m.config.ScreenW, m.config.ScreenH)
			m.board = &board
			return m, board.Init()
		}
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		return m.quit()
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	board := next.(ScoreboardModel)
	switch {
	case board.IsQuitting():
		return m.quit()
	case board.IsGoingBack():
		m.board = nil
		return m, nil
	}
	m.board = &board
	return m, cmd
}

// handleTick advances the simulation. Ticks keep running while the
// leaderboard is open so backend replies are still applied.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	if result.State.Quit {
		return m.quit()
	}
	return m, tickCmd(m.config.TickRate)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.quitting {
		m.game.SaveHighScore()
		if m.onQuit != nil {
			m.onQuit()
		}
	}
	m.quitting = true
	return m, tea.Quit
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.Dir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.board != nil {
		return m.board.View()
	}
	m.game.Render(m.screen)
	return m.palette.Render(m.screen)
}

// Run starts the Bubble Tea program for game and blocks until it exits.
func Run(game *jumper.Game, cfg core.RuntimeConfig, opts ModelOptions) error {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
