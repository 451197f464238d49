package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Command factories for async operations

// SplashCmd ends the splash after d
func SplashCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return splashDoneMsg{} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return splashDoneMsg{}
	})
}

// WaitForPlaybackCmd blocks until a playback control reports a change
func WaitForPlaybackCmd(events <-chan int) tea.Cmd {
	return func() tea.Msg {
		id, ok := <-events
		if !ok {
			return nil
		}
		return PlaybackChangedMsg{SongID: id}
	}
}
