// Package tui is the Bubble Tea front end of the tetrion client. It owns the
// render loop: a stack of scenes, keyboard handling and drawing of the frames
// read from a simulation session.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg asks the scene that scheduled it to render the next frame.
// Scenes ignore frames scheduled by another scene.
type FrameMsg struct {
	Owner string
	Time  time.Time
}

// frameCmd returns a Bubble Tea command that sends a frame message after one
// frame interval at the specified rate.
func frameCmd(owner string, fps int) tea.Cmd {
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Owner: owner, Time: t}
	})
}
