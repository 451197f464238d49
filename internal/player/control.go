// Package player implements the per-song audio playback control: a small
// state machine over one Media with an asynchronous play request.
package player

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/mixtape/internal/domain"
)

// Option configures a Control
type Option func(*Control)

// WithNotify registers a callback invoked after every state change.
// It is called without the control's lock held.
func WithNotify(fn func()) Option {
	return func(c *Control) { c.notify = fn }
}

// WithLogger sets the logger used for playback diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Control) { c.logger = logger }
}

// Control presents one playable media resource. It is safe to call from the
// UI goroutine while media callbacks arrive on others.
type Control struct {
	id     string
	ref    string
	media  Media
	notify func()
	logger *slog.Logger

	mu        sync.Mutex
	status    domain.PlaybackStatus
	isPlaying bool
	progress  float64
	lastError string
	closed    bool

	unsubscribe func()
	closeOnce   sync.Once
}

// New binds a control to ref for its whole lifetime. An empty ref yields a
// control with no media and no interactive behaviour.
func New(ref string, opener Opener, opts ...Option) *Control {
	c := &Control{
		id:     uuid.NewString(),
		ref:    ref,
		status: domain.StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("control", c.id)

	if ref == "" {
		return c
	}

	media, err := opener.Open(ref)
	if err != nil {
		c.logger.Warn("failed to open media", "ref", ref, "error", err)
		c.status = domain.StatusError
		c.lastError = domain.MsgLoadFailed
		return c
	}
	c.media = media
	c.unsubscribe = media.Subscribe(c.handleEvent)
	return c
}

// Ref returns the bound media reference
func (c *Control) Ref() string {
	return c.ref
}

// Available reports whether the control has a media reference at all.
// Unavailable controls render a notice instead of controls.
func (c *Control) Available() bool {
	return c.ref != ""
}

// TogglePlayback pauses when playing and requests playback otherwise.
// Pausing takes effect immediately; a play request resolves later.
func (c *Control) TogglePlayback() {
	if !c.Available() {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.isPlaying {
		c.isPlaying = false
		c.status = domain.StatusIdle
		c.mu.Unlock()

		c.media.Pause()
		c.logger.Debug("paused")
		c.changed()
		return
	}

	// Overlapping requests from rapid toggling are not serialised; each
	// resolution writes its outcome and the last one wins.
	c.status = domain.StatusPlayPending
	media := c.media
	c.mu.Unlock()
	c.changed()

	if media == nil {
		c.resolvePlay(domain.ErrResourceLoad)
		return
	}
	c.logger.Debug("play requested")
	media.Play(c.resolvePlay)
}

// resolvePlay is the continuation of a play request
func (c *Control) resolvePlay(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.isPlaying = false
		c.status = domain.StatusError
		c.lastError = domain.MsgPlayFailed
	} else {
		c.isPlaying = true
		c.status = domain.StatusPlaying
		c.lastError = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("play request failed", "ref", c.ref, "error", err)
	}
	c.changed()
}

// Seek repositions playback to fraction of the total duration without
// changing whether it plays. It does nothing while the duration is unknown.
func (c *Control) Seek(fraction float64) {
	if !c.Available() || c.media == nil || math.IsNaN(fraction) {
		return
	}
	duration, known := c.media.Duration()
	if !known || duration <= 0 {
		return
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	fraction = clamp(fraction)
	target := time.Duration(fraction * float64(duration))
	if err := c.media.Seek(target); err != nil {
		c.logger.Warn("seek failed", "target", target, "error", err)
		return
	}

	c.mu.Lock()
	c.progress = fraction
	c.mu.Unlock()
	c.changed()
}

// SeekAt seeks to the point a click at column x lands on a horizontal track
// of the given width. The first cell is the start and the last cell the end.
func (c *Control) SeekAt(x, width int) {
	switch {
	case width <= 0:
		return
	case width == 1:
		c.Seek(0)
	default:
		c.Seek(float64(x) / float64(width-1))
	}
}

// Snapshot returns the current playback state for rendering
func (c *Control) Snapshot() domain.PlaybackState {
	var (
		pos      time.Duration
		duration time.Duration
		known    bool
	)
	if c.media != nil {
		pos = c.media.Position()
		duration, known = c.media.Duration()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.PlaybackState{
		Status:        c.status,
		IsPlaying:     c.isPlaying,
		Progress:      c.progress,
		LastError:     c.lastError,
		Position:      pos,
		Duration:      duration,
		DurationKnown: known && duration > 0,
	}
}

// Close releases the media subscription and the media itself. Play
// resolutions and events arriving afterwards are ignored.
func (c *Control) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.isPlaying = false
		unsubscribe := c.unsubscribe
		c.unsubscribe = nil
		c.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		if c.media != nil {
			c.media.Pause()
			err = c.media.Close()
		}
	})
	return err
}

func (c *Control) handleEvent(ev Event) {
	switch ev.Kind {
	case EventTimeUpdate:
		c.onProgressTick(ev.Position)
	case EventEnded:
		c.onPlaybackEnded()
	case EventError:
		c.onLoadOrPlaybackError(ev.Err)
	}
}

func (c *Control) onProgressTick(pos time.Duration) {
	duration, known := c.media.Duration()
	if !known || duration <= 0 {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.progress = clamp(float64(pos) / float64(duration))
	c.mu.Unlock()
	c.changed()
}

// onPlaybackEnded leaves progress at the final position; there is no
// automatic restart.
func (c *Control) onPlaybackEnded() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.isPlaying = false
	c.status = domain.StatusIdle
	c.mu.Unlock()

	c.logger.Debug("playback ended")
	c.changed()
}

// onLoadOrPlaybackError records the failure without touching isPlaying
func (c *Control) onLoadOrPlaybackError(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.status = domain.StatusError
	c.lastError = domain.MsgLoadFailed
	c.mu.Unlock()

	c.logger.Warn("media error", "ref", c.ref, "error", err)
	c.changed()
}

func (c *Control) changed() {
	if c.notify != nil {
		c.notify()
	}
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
