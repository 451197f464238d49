package tui

import (
	"github.com/mmcdole/mixtape/internal/config"
)

// Message types for the TUI

// splashDoneMsg ends the loading splash
type splashDoneMsg struct{}

// PlaybackChangedMsg signals that a song's playback state changed
type PlaybackChangedMsg struct {
	SongID int
}

// ConfigReloadedMsg carries configuration re-read after the file changed
type ConfigReloadedMsg struct {
	Config *config.Config
}
