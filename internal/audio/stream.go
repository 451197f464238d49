package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/player"
)

// outputRate is the speaker sample rate every stream is resampled to
const outputRate = beep.SampleRate(44100)

// Stream is a player.Media backed by an MP3 resource. The resource is
// fetched and decoded on the first play request.
type Stream struct {
	ref     string
	fetcher *Fetcher
	tick    time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	queued   bool   // ctrl is in the speaker mix
	ended    bool   // reached end of stream since last play
	playID   uint64 // generation of the queued ctrl, stale callbacks are ignored
	stopTick chan struct{}
	closed   bool

	subMu   sync.Mutex
	subs    map[int]func(player.Event)
	nextSub int
}

// NewStream creates a stream for ref. Nothing is fetched until Play.
func NewStream(ref string, fetcher *Fetcher, tick time.Duration, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	return &Stream{
		ref:     ref,
		fetcher: fetcher,
		tick:    tick,
		logger:  logger,
		subs:    make(map[int]func(player.Event)),
	}
}

// Play starts playback in the background and reports the outcome to done
func (s *Stream) Play(done func(error)) {
	go func() {
		done(s.start())
	}()
}

func (s *Stream) start() error {
	if err := s.load(); err != nil {
		s.publish(player.Event{Kind: player.EventError, Err: err})
		return fmt.Errorf("%w: %v", domain.ErrPlaybackRequestFailed, err)
	}
	if err := initOutput(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPlaybackRequestFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: stream closed", domain.ErrPlaybackRequestFailed)
	}

	if err := s.rewindIfEndedLocked(); err != nil {
		return fmt.Errorf("%w: rewind: %v", domain.ErrPlaybackRequestFailed, err)
	}

	if !s.queued {
		s.playID++
		id := s.playID
		s.ctrl = &beep.Ctrl{
			Streamer: beep.Resample(4, s.format.SampleRate, outputRate, s.streamer),
		}
		playOutput(beep.Seq(s.ctrl, beep.Callback(func() {
			// runs on the speaker goroutine with the speaker locked
			go s.finished(id)
		})))
		s.queued = true
	} else {
		lockOutput()
		s.ctrl.Paused = false
		unlockOutput()
	}

	s.startTickerLocked()
	return nil
}

// rewindIfEndedLocked restarts a stream that played to the end and was not
// repositioned since. Caller holds s.mu.
func (s *Stream) rewindIfEndedLocked() error {
	if !s.ended {
		return nil
	}
	lockOutput()
	err := s.streamer.Seek(0)
	unlockOutput()
	if err != nil {
		return err
	}
	s.ended = false
	return nil
}

// load fetches and decodes the resource once
func (s *Stream) load() error {
	s.mu.Lock()
	loaded := s.streamer != nil
	s.mu.Unlock()
	if loaded {
		return nil
	}

	data, err := s.fetcher.Fetch(context.Background(), s.ref)
	if err != nil {
		return err
	}
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("%w: decode: %v", domain.ErrResourceLoad, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.streamer != nil || s.closed {
		// a concurrent play request won, or the stream went away
		streamer.Close()
		return nil
	}
	s.streamer = streamer
	s.format = format
	s.logger.Debug("decoded audio", "ref", s.ref, "rate", format.SampleRate, "samples", streamer.Len())
	return nil
}

// Pause pauses playback
func (s *Stream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl != nil {
		lockOutput()
		s.ctrl.Paused = true
		unlockOutput()
	}
	s.stopTickerLocked()
}

// Seek moves the decoder to pos
func (s *Stream) Seek(pos time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return fmt.Errorf("%w: not loaded", domain.ErrResourceLoad)
	}
	n := s.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if n > s.streamer.Len() {
		n = s.streamer.Len()
	}

	lockOutput()
	err := s.streamer.Seek(n)
	unlockOutput()
	if err != nil {
		return err
	}
	// an explicit position replaces the rewind a replay would do
	s.ended = false
	return nil
}

// Position returns the current playback position
func (s *Stream) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0
	}
	lockOutput()
	pos := s.streamer.Position()
	unlockOutput()
	return s.format.SampleRate.D(pos)
}

// Duration returns the total length once the resource has been decoded
func (s *Stream) Duration() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streamer == nil {
		return 0, false
	}
	return s.format.SampleRate.D(s.streamer.Len()), true
}

// Subscribe registers fn for stream events
func (s *Stream) Subscribe(fn func(player.Event)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Close stops playback and releases the decoder
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.stopTickerLocked()

	if s.ctrl != nil {
		// a nil streamer ends the sequence, which drops it from the mix
		lockOutput()
		s.ctrl.Streamer = nil
		unlockOutput()
	}
	s.playID++

	if s.streamer != nil {
		return s.streamer.Close()
	}
	return nil
}

// finished handles the end-of-stream callback for generation id
func (s *Stream) finished(id uint64) {
	s.mu.Lock()
	if id != s.playID || s.closed {
		s.mu.Unlock()
		return
	}
	s.queued = false
	s.ended = true
	s.stopTickerLocked()
	final := s.format.SampleRate.D(s.streamer.Len())
	s.mu.Unlock()

	s.publish(player.Event{Kind: player.EventTimeUpdate, Position: final})
	s.publish(player.Event{Kind: player.EventEnded})
}

// startTickerLocked publishes time updates while playing. Caller holds s.mu.
func (s *Stream) startTickerLocked() {
	if s.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	s.stopTick = stop

	go func() {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.publish(player.Event{Kind: player.EventTimeUpdate, Position: s.Position()})
			}
		}
	}()
}

func (s *Stream) stopTickerLocked() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

func (s *Stream) publish(ev player.Event) {
	s.subMu.Lock()
	subs := make([]func(player.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
