// Package tui provides the Bubble Tea front end for bullet.
// It runs the tick and display loops, maps the mouse to steering input,
// and serves the same program over SSH.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DrawRate is the display pass frequency, independent of the simulation rate.
const DrawRate = 60

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// TickMsg is sent to trigger a simulation tick of the game model with ID.
type TickMsg struct {
	ID   int
	Time time.Time
}

// DrawMsg is sent to trigger a display pass of the game model with ID.
type DrawMsg struct {
	ID   int
	Time time.Time
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(id, tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}

// drawCmd schedules the next display pass.
func drawCmd(id int) tea.Cmd {
	return tea.Tick(time.Second/DrawRate, func(t time.Time) tea.Msg {
		return DrawMsg{ID: id, Time: t}
	})
}
