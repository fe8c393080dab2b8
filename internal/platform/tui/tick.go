// Package tui runs the jumper in a terminal with Bubble Tea, locally or
// per SSH session, and shows the global leaderboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a command that sends one tick after 1/tickRate seconds.
// The game measures real elapsed time, so a late tick only stretches dt.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
