package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-jumper/internal/backend"
)

// Scoreboard layout constants
const (
	pageSize      = 20 // Rows fetched per page
	fetchTimeout  = 10 * time.Second
	tableMinWidth = 50
)

// LeaderboardSource is the part of the backend the leaderboard reads.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, limit, offset int) ([]backend.LeaderboardEntry, error)
}

// leaderboardMsg carries one fetched page.
type leaderboardMsg struct {
	offset  int
	entries []backend.LeaderboardEntry
	err     error
}

// ScoreboardKeyMap defines the key bindings for the leaderboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextPg  key.Binding
	PrevPg  key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PrevPg, k.NextPg, k.Refresh, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPg, k.NextPg},
		{k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPg: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("right/l", "next page"),
		),
		PrevPg: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("left/h", "prev page"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the global leaderboard.
type ScoreboardModel struct {
	source    LeaderboardSource
	offset    int // First rank on the current page, zero based
	entries   []backend.LeaderboardEntry
	loading   bool
	err       error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a leaderboard view over source.
func NewScoreboardModel(source LeaderboardSource, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	m := ScoreboardModel{
		source:  source,
		keys:    DefaultScoreboardKeyMap(),
		help:    h,
		width:   width,
		height:  height,
		loading: true,
	}
	m.table = m.createTable()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Games", Width: 6},
		{Title: "Last played", Width: 14},
	}

	// Give the player column whatever room is left.
	if spare := m.width - 4 - tableMinWidth - 10; spare > 0 {
		columns[1].Width += min(spare, 24)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-8)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("64")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// fetch loads the page starting at offset.
func (m ScoreboardModel) fetch(offset int) tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		entries, err := source.Leaderboard(ctx, pageSize, offset)
		return leaderboardMsg{offset: offset, entries: entries, err: err}
	}
}

// updateTableRows updates the table with current entries.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", e.Rank),
			e.UserID,
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d", e.TotalGames),
			e.LastPlayed.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init fetches the first page.
func (m ScoreboardModel) Init() tea.Cmd {
	return m.fetch(0)
}

// Update handles messages for the leaderboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case leaderboardMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.offset = msg.offset
			m.entries = msg.entries
			m.updateTableRows()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextPg):
			if m.loading || len(m.entries) < pageSize {
				return m, nil
			}
			m.loading = true
			return m, m.fetch(m.offset + pageSize)

		case key.Matches(msg, m.keys.PrevPg):
			if m.loading || m.offset == 0 {
				return m, nil
			}
			m.loading = true
			return m, m.fetch(max(0, m.offset-pageSize))

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.fetch(m.offset)

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("149"))
	title := fmt.Sprintf("LEADERBOARD  %d-%d", m.offset+1, m.offset+max(len(m.entries), 1))
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or a status message.
func (m ScoreboardModel) renderTableContent() string {
	status := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.err != nil:
		return status.Render("Could not load the leaderboard.\n" + m.err.Error())
	case m.loading && len(m.entries) == 0:
		return status.Render("Loading...")
	case len(m.entries) == 0:
		return status.Render("No scores recorded yet.\nPlay a run to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to leave the leaderboard.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// centerText pads each line of s to center it within width.
func centerText(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if pad := (width - lipgloss.Width(line)) / 2; pad > 0 {
			lines[i] = strings.Repeat(" ", pad) + line
		}
	}
	return strings.Join(lines, "\n")
}

// RunScoreboard shows the leaderboard until the user leaves it.
func RunScoreboard(source LeaderboardSource, width, height int) error {
	p := tea.NewProgram(
		standaloneBoard{NewScoreboardModel(source, width, height)},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// standaloneBoard quits the program when the user goes back.
type standaloneBoard struct {
	ScoreboardModel
}

func (s standaloneBoard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := s.ScoreboardModel.Update(msg)
	s.ScoreboardModel = next.(ScoreboardModel)
	if s.IsGoingBack() {
		return s, tea.Quit
	}
	return s, cmd
}
