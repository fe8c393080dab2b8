package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/config"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/jumper"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
		quit bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runes("a"), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d", runes("d"), core.ActionRight, false},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"j", runes("j"), core.ActionDown, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionUse, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"p", runes("p"), core.ActionPause, false},
		{"r", runes("r"), core.ActionRestart, false},
		{"q", runes("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runes("z"), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			if got != tt.want || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), got, quit, tt.want, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrameSkipsQuit(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()
	if !km.MapKeyToFrame(runes("q"), &frame) {
		t.Fatal("q not reported as quit")
	}
	if frame.Has(core.ActionQuit) {
		t.Error("quit leaked into the input frame")
	}
}

func TestPaletteGroupsColors(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawTextColor(0, 0, "ab", core.ColorMatcha)
	s.DrawText(2, 0, "cd")
	out := NewPalette(nil).Render(s)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[0], "cd") {
		t.Errorf("first line %q lost text", lines[0])
	}
}

func newTestModel(t *testing.T, board LeaderboardSource) (Model, *jumper.Game) {
	t.Helper()
	game := jumper.New(jumper.Options{Config: config.DefaultJumperConfig(), Runner: jumper.InlineRunner})
	t.Cleanup(game.Close)
	cfg := core.RuntimeConfig{ScreenW: 60, ScreenH: 30, TickRate: 60, Seed: 7}
	m := NewModel(game, cfg, ModelOptions{Leaderboard: board})
	m.Init()
	return m, game
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModelTicksIntoMenu(t *testing.T) {
	m, game := newTestModel(t, nil)
	m, cmd := update(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick did not schedule the next tick")
	}
	if game.Phase() != jumper.StateMenu {
		t.Errorf("phase = %v, want menu", game.Phase())
	}
	if view := m.View(); !strings.Contains(view, "MATCHA JUMP") {
		t.Errorf("menu view missing title:\n%s", view)
	}
}

func TestModelQuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)
	quits := 0
	m.onQuit = func() { quits++ }
	m, cmd := update(t, m, runes("q"))
	if cmd == nil || !m.quitting {
		t.Fatal("q did not quit")
	}
	if quits != 1 {
		t.Errorf("onQuit called %d times, want 1", quits)
	}
	if m.View() != "" {
		t.Error("view not blank after quit")
	}
}

func TestModelQuitFromGameMenu(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, TickMsg(time.Now()))

	// Quit is the last item of the main menu.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, TickMsg(time.Now()))
	if !m.quitting {
		t.Error("selecting Quit did not stop the program")
	}
}

type fakeBoard struct {
	calls   []int
	entries []backend.LeaderboardEntry
	err     error
}

func (f *fakeBoard) Leaderboard(_ context.Context, limit, offset int) ([]backend.LeaderboardEntry, error) {
	f.calls = append(f.calls, offset)
	if f.err != nil {
		return nil, f.err
	}
	end := min(len(f.entries), offset+limit)
	if offset >= end {
		return nil, nil
	}
	return f.entries[offset:end], nil
}

func entries(n int) []backend.LeaderboardEntry {
	out := make([]backend.LeaderboardEntry, n)
	for i := range out {
		out[i] = backend.LeaderboardEntry{Rank: i + 1, UserID: "player", Score: 1000 - i, TotalGames: 3, LastPlayed: time.Unix(0, 0)}
	}
	return out
}

func TestModelOpensLeaderboardFromMenu(t *testing.T) {
	src := &fakeBoard{entries: entries(3)}
	m, _ := newTestModel(t, src)
	m, _ = update(t, m, TickMsg(time.Now()))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.board == nil || cmd == nil {
		t.Fatal("tab did not open the leaderboard")
	}
	m, _ = update(t, m, cmd())
	if view := m.View(); !strings.Contains(view, "LEADERBOARD") || !strings.Contains(view, "1000") {
		t.Errorf("leaderboard view:\n%s", view)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.board != nil {
		t.Error("esc did not close the leaderboard")
	}
}

func TestScoreboardPaging(t *testing.T) {
	src := &fakeBoard{entries: entries(pageSize + 5)}
	m := NewScoreboardModel(src, 100, 40)

	step := func(msg tea.Msg) tea.Cmd {
		next, cmd := m.Update(msg)
		m = next.(ScoreboardModel)
		return cmd
	}
	step(m.Init()())
	if len(m.entries) != pageSize {
		t.Fatalf("first page has %d rows, want %d", len(m.entries), pageSize)
	}

	cmd := step(tea.KeyMsg{Type: tea.KeyRight})
	if cmd == nil {
		t.Fatal("next page not requested")
	}
	step(cmd())
	if m.offset != pageSize || len(m.entries) != 5 || m.entries[0].Rank != pageSize+1 {
		t.Errorf("second page offset=%d rows=%d", m.offset, len(m.entries))
	}

	// A short page is the last one.
	if cmd := step(tea.KeyMsg{Type: tea.KeyRight}); cmd != nil {
		t.Error("requested a page past the end")
	}

	cmd = step(tea.KeyMsg{Type: tea.KeyLeft})
	step(cmd())
	if m.offset != 0 {
		t.Errorf("offset = %d after prev, want 0", m.offset)
	}
	if want := []int{0, pageSize, 0}; len(src.calls) != len(want) {
		t.Errorf("fetches = %v, want %v", src.calls, want)
	}
}

func TestScoreboardShowsErrors(t *testing.T) {
	src := &fakeBoard{err: errors.New("connection refused")}
	m := NewScoreboardModel(src, 100, 40)
	next, _ := m.Update(m.Init()())
	m = next.(ScoreboardModel)
	if !strings.Contains(m.View(), "connection refused") {
		t.Errorf("error not shown:\n%s", m.View())
	}
}
