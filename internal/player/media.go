package player

import "time"

// EventKind identifies a notification from the media subsystem
type EventKind int

const (
	EventTimeUpdate EventKind = iota
	EventEnded
	EventError
)

// Event is a notification published by a Media to its subscribers
type Event struct {
	Kind     EventKind
	Position time.Duration // set for EventTimeUpdate
	Err      error         // set for EventError
}

// Media is one playable audio resource as seen by a Control.
type Media interface {
	// Play requests playback. The outcome is reported later through done,
	// possibly on another goroutine. done is called exactly once.
	Play(done func(error))

	// Pause stops playback at the current position. It cannot fail.
	Pause()

	// Seek moves the playback position.
	Seek(pos time.Duration) error

	// Position returns the current playback position.
	Position() time.Duration

	// Duration returns the total length and whether it is known yet.
	Duration() (time.Duration, bool)

	// Subscribe registers fn for time-update, ended and error events.
	// The returned func releases the subscription.
	Subscribe(fn func(Event)) (cancel func())

	// Close releases the resource.
	Close() error
}

// Opener binds a media reference (a URL) to a Media.
type Opener interface {
	Open(ref string) (Media, error)
}

// OpenerFunc adapts a plain function to Opener
type OpenerFunc func(ref string) (Media, error)

// Open implements Opener
func (f OpenerFunc) Open(ref string) (Media, error) { return f(ref) }
