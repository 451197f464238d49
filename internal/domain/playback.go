package domain

import "time"

// PlaybackStatus is the state of one playback control
type PlaybackStatus int

const (
	StatusIdle PlaybackStatus = iota // paused or never started
	StatusPlayPending
	StatusPlaying
	StatusError
)

func (s PlaybackStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlayPending:
		return "pending"
	case StatusPlaying:
		return "playing"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// PlaybackState is what a control exposes to the view for rendering.
// Progress is only meaningful when Duration is known.
type PlaybackState struct {
	Status    PlaybackStatus
	IsPlaying bool
	Progress  float64 // fraction in [0,1]
	LastError string  // empty when no error

	Position      time.Duration
	Duration      time.Duration
	DurationKnown bool
}

// HasError reports whether an error message should be displayed
func (s PlaybackState) HasError() bool {
	return s.LastError != ""
}
