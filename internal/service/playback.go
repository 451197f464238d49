package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/player"
)

// PlaybackService owns the playback controls of the songs currently on
// screen, one independent control per song.
type PlaybackService struct {
	opener player.Opener
	logger *slog.Logger

	mu       sync.Mutex
	controls map[int]*player.Control
	notify   func(songID int)
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(opener player.Opener, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		opener:   opener,
		logger:   logger,
		controls: make(map[int]*player.Control),
	}
}

// SetNotify registers fn to be told which song's state changed
func (s *PlaybackService) SetNotify(fn func(songID int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Mount binds a fresh control to every song, replacing any mounted ones
func (s *PlaybackService) Mount(songs []domain.Song) {
	s.Unmount()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, song := range songs {
		id := song.ID
		s.controls[id] = player.New(song.AudioURL, s.opener,
			player.WithLogger(s.logger.With("song", id)),
			player.WithNotify(func() { s.changed(id) }),
		)
	}
	s.logger.Info("mounted playback controls", "count", len(songs))
}

// Unmount closes every mounted control
func (s *PlaybackService) Unmount() {
	s.mu.Lock()
	controls := s.controls
	s.controls = make(map[int]*player.Control)
	s.mu.Unlock()

	for id, c := range controls {
		if err := c.Close(); err != nil {
			s.logger.Warn("failed to close control", "song", id, "error", err)
		}
	}
	if len(controls) > 0 {
		s.logger.Info("unmounted playback controls", "count", len(controls))
	}
}

// Mounted returns the number of live controls
func (s *PlaybackService) Mounted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.controls)
}

// Toggle plays or pauses a song
func (s *PlaybackService) Toggle(songID int) error {
	c, err := s.control(songID)
	if err != nil {
		return err
	}
	c.TogglePlayback()
	return nil
}

// Seek moves a song to fraction of its duration
func (s *PlaybackService) Seek(songID int, fraction float64) error {
	c, err := s.control(songID)
	if err != nil {
		return err
	}
	c.Seek(fraction)
	return nil
}

// SeekBy moves a song delta of its duration from the current position
func (s *PlaybackService) SeekBy(songID int, delta float64) error {
	c, err := s.control(songID)
	if err != nil {
		return err
	}
	c.Seek(c.Snapshot().Progress + delta)
	return nil
}

// SeekAt seeks a song to a click at column x of a track width cells wide
func (s *PlaybackService) SeekAt(songID, x, width int) error {
	c, err := s.control(songID)
	if err != nil {
		return err
	}
	c.SeekAt(x, width)
	return nil
}

// State returns a song's playback state and whether it has audio at all
func (s *PlaybackService) State(songID int) (domain.PlaybackState, bool, error) {
	c, err := s.control(songID)
	if err != nil {
		return domain.PlaybackState{}, false, err
	}
	return c.Snapshot(), c.Available(), nil
}

// States returns the playback state of every mounted song
func (s *PlaybackService) States() map[int]domain.PlaybackState {
	s.mu.Lock()
	controls := make(map[int]*player.Control, len(s.controls))
	for id, c := range s.controls {
		controls[id] = c
	}
	s.mu.Unlock()

	states := make(map[int]domain.PlaybackState, len(controls))
	for id, c := range controls {
		states[id] = c.Snapshot()
	}
	return states
}

func (s *PlaybackService) control(songID int) (*player.Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controls[songID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrSongNotFound, songID)
	}
	return c, nil
}

func (s *PlaybackService) changed(songID int) {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn(songID)
	}
}
