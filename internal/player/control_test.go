package player

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/mmcdole/mixtape/internal/domain"
)

// fakeMedia is a Media whose play requests are resolved by the test
type fakeMedia struct {
	mu       sync.Mutex
	duration time.Duration
	known    bool
	pos      time.Duration
	pending  []func(error)
	subs     map[int]func(Event)
	nextSub  int
	pauses   int
	closed   bool
	seekErr  error
	seeks    []time.Duration
}

func newFakeMedia(duration time.Duration, known bool) *fakeMedia {
	return &fakeMedia{duration: duration, known: known, subs: make(map[int]func(Event))}
}

func (m *fakeMedia) Play(done func(error)) {
	m.mu.Lock()
	m.pending = append(m.pending, done)
	m.mu.Unlock()
}

func (m *fakeMedia) Pause() {
	m.mu.Lock()
	m.pauses++
	m.mu.Unlock()
}

func (m *fakeMedia) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seekErr != nil {
		return m.seekErr
	}
	m.seeks = append(m.seeks, pos)
	m.pos = pos
	return nil
}

func (m *fakeMedia) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos
}

func (m *fakeMedia) Duration() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration, m.known
}

func (m *fakeMedia) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *fakeMedia) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// resolve completes the oldest pending play request
func (m *fakeMedia) resolve(err error) {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		panic("no pending play request")
	}
	done := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()
	done(err)
}

func (m *fakeMedia) emit(ev Event) {
	m.mu.Lock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

func (m *fakeMedia) subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

func openerFor(m *fakeMedia) Opener {
	return OpenerFunc(func(string) (Media, error) { return m, nil })
}

const sampleURL = "https://example.com/perfect.mp3"

func TestNewInitialState(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	s := c.Snapshot()
	if s.Status != domain.StatusIdle || s.IsPlaying || s.Progress != 0 || s.LastError != "" {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	if !c.Available() {
		t.Fatal("control with a reference should be available")
	}
	if media.subscribers() != 1 {
		t.Fatalf("expected one subscription, got %d", media.subscribers())
	}
}

func TestMissingResource(t *testing.T) {
	opened := false
	opener := OpenerFunc(func(string) (Media, error) {
		opened = true
		return nil, nil
	})
	c := New("", opener)

	if c.Available() {
		t.Fatal("control without a reference should not be available")
	}
	if opened {
		t.Fatal("opener must not be called for an empty reference")
	}

	c.TogglePlayback()
	c.Seek(0.5)

	s := c.Snapshot()
	if s.IsPlaying || s.HasError() || s.Status != domain.StatusIdle {
		t.Fatalf("missing resource must stay idle without error: %+v", s)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPlaySuccessThenPause(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	if s := c.Snapshot(); s.Status != domain.StatusPlayPending || s.IsPlaying {
		t.Fatalf("expected pending, got %+v", s)
	}

	media.resolve(nil)
	s := c.Snapshot()
	if !s.IsPlaying || s.Status != domain.StatusPlaying || s.HasError() {
		t.Fatalf("expected playing without error, got %+v", s)
	}

	c.TogglePlayback()
	s = c.Snapshot()
	if s.IsPlaying || s.Status != domain.StatusIdle {
		t.Fatalf("pause must take effect immediately, got %+v", s)
	}
	if media.pauses != 1 {
		t.Fatalf("expected one pause on media, got %d", media.pauses)
	}
}

func TestPlayFailure(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	media.resolve(errors.New("autoplay rejected"))

	s := c.Snapshot()
	if s.IsPlaying {
		t.Fatal("failed play must leave control paused")
	}
	if s.LastError != domain.MsgPlayFailed {
		t.Fatalf("LastError = %q, want %q", s.LastError, domain.MsgPlayFailed)
	}
	if s.Status != domain.StatusError {
		t.Fatalf("Status = %v, want error", s.Status)
	}
}

func TestErrorClearedBySuccessfulPlay(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	media.resolve(errors.New("network"))
	c.TogglePlayback()
	media.resolve(nil)

	s := c.Snapshot()
	if !s.IsPlaying || s.HasError() || s.Status != domain.StatusPlaying {
		t.Fatalf("successful retry must clear the error, got %+v", s)
	}
}

func TestProgressTickAndEnded(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	media.resolve(nil)

	media.emit(Event{Kind: EventTimeUpdate, Position: 50 * time.Second})
	if got := c.Snapshot().Progress; got != 0.25 {
		t.Fatalf("Progress = %v, want 0.25", got)
	}

	media.emit(Event{Kind: EventTimeUpdate, Position: 200 * time.Second})
	media.emit(Event{Kind: EventEnded})
	s := c.Snapshot()
	if s.IsPlaying || s.Status != domain.StatusIdle {
		t.Fatalf("ended must stop playback, got %+v", s)
	}
	if s.Progress != 1 {
		t.Fatalf("ended must leave progress at the final position, got %v", s.Progress)
	}
}

func TestProgressTickUnknownDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		known    bool
	}{
		{"unknown", 0, false},
		{"zero", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := newFakeMedia(tt.duration, tt.known)
			c := New(sampleURL, openerFor(media))

			media.emit(Event{Kind: EventTimeUpdate, Position: 10 * time.Second})
			got := c.Snapshot().Progress
			if math.IsNaN(got) || got != 0 {
				t.Fatalf("Progress = %v, want 0", got)
			}
		})
	}
}

func TestSeek(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		wantPos  time.Duration
		wantFrac float64
	}{
		{"start", 0, 0, 0},
		{"middle", 0.5, 100 * time.Second, 0.5},
		{"end", 1, 200 * time.Second, 1},
		{"below track", -0.2, 0, 0},
		{"past track", 1.3, 200 * time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := newFakeMedia(200*time.Second, true)
			c := New(sampleURL, openerFor(media))

			c.Seek(tt.fraction)
			if media.Position() != tt.wantPos {
				t.Errorf("position = %v, want %v", media.Position(), tt.wantPos)
			}
			if got := c.Snapshot().Progress; got != tt.wantFrac {
				t.Errorf("Progress = %v, want %v", got, tt.wantFrac)
			}
		})
	}
}

func TestSeekKeepsPlayingState(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	media.resolve(nil)
	c.Seek(0.75)

	s := c.Snapshot()
	if !s.IsPlaying {
		t.Fatal("seek must not change the playing state")
	}
	if media.Position() != 150*time.Second {
		t.Fatalf("position = %v, want 150s", media.Position())
	}
}

func TestSeekUnknownDurationIsNoop(t *testing.T) {
	media := newFakeMedia(0, false)
	c := New(sampleURL, openerFor(media))

	c.Seek(0.5)
	c.Seek(math.NaN())

	got := c.Snapshot().Progress
	if math.IsNaN(got) || got != 0 {
		t.Fatalf("Progress = %v, want unchanged 0", got)
	}
	if len(media.seeks) != 0 {
		t.Fatalf("media must not be repositioned, got %v", media.seeks)
	}
}

func TestSeekFailureKeepsProgress(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	media.seekErr = errors.New("not seekable")
	c := New(sampleURL, openerFor(media))

	c.Seek(0.5)
	if got := c.Snapshot().Progress; got != 0 {
		t.Fatalf("Progress = %v, want 0 after failed seek", got)
	}
}

func TestSeekAt(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	tests := []struct {
		x, width int
		want     time.Duration
	}{
		{10, 41, 50 * time.Second},
		{0, 41, 0},
		{40, 41, 200 * time.Second}, // last cell reaches the end
		{60, 41, 200 * time.Second},
		{0, 1, 0},
	}
	for _, tt := range tests {
		c.SeekAt(tt.x, tt.width)
		if got := media.Position(); got != tt.want {
			t.Errorf("SeekAt(%d, %d): position = %v, want %v", tt.x, tt.width, got, tt.want)
		}
	}

	c.SeekAt(5, 0)
	if media.Position() != 0 {
		t.Fatal("zero-width track must be ignored")
	}
}

func TestResourceErrorKeepsPlaying(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	media.resolve(nil)
	media.emit(Event{Kind: EventError, Err: errors.New("stream reset")})

	s := c.Snapshot()
	if s.LastError != domain.MsgLoadFailed {
		t.Fatalf("LastError = %q, want %q", s.LastError, domain.MsgLoadFailed)
	}
	if !s.IsPlaying {
		t.Fatal("resource error must not force isPlaying false")
	}
	if s.Status != domain.StatusError {
		t.Fatalf("Status = %v, want error", s.Status)
	}
}

func TestLastErrorWriteWins(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	media.emit(Event{Kind: EventError, Err: errors.New("decode")})
	media.resolve(errors.New("rejected"))

	if got := c.Snapshot().LastError; got != domain.MsgPlayFailed {
		t.Fatalf("LastError = %q, want most recent %q", got, domain.MsgPlayFailed)
	}

	media.emit(Event{Kind: EventError, Err: errors.New("decode")})
	if got := c.Snapshot().LastError; got != domain.MsgLoadFailed {
		t.Fatalf("LastError = %q, want most recent %q", got, domain.MsgLoadFailed)
	}
}

func TestToggleTwiceReturnsToIdle(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))
	before := c.Snapshot()

	c.TogglePlayback()
	media.resolve(nil)
	c.TogglePlayback()

	after := c.Snapshot()
	if after.IsPlaying != before.IsPlaying || after.Status != before.Status || after.Progress != before.Progress {
		t.Fatalf("two toggles should return to idle: before %+v after %+v", before, after)
	}
}

func TestOverlappingPlayRequests(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	c := New(sampleURL, openerFor(media))

	c.TogglePlayback()
	c.TogglePlayback() // still pending, so this is a second play request

	media.resolve(nil)
	media.resolve(errors.New("interrupted"))

	s := c.Snapshot()
	if s.IsPlaying || s.LastError != domain.MsgPlayFailed {
		t.Fatalf("last resolution should win, got %+v", s)
	}
}

func TestCloseReleasesSubscriptionAndIgnoresLateResults(t *testing.T) {
	media := newFakeMedia(200*time.Second, true)
	notified := 0
	c := New(sampleURL, openerFor(media), WithNotify(func() { notified++ }))

	c.TogglePlayback()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if media.subscribers() != 0 {
		t.Fatal("Close must release the media subscription")
	}
	if !media.closed {
		t.Fatal("Close must close the media")
	}

	before := notified
	media.resolve(nil)
	if s := c.Snapshot(); s.IsPlaying {
		t.Fatal("late resolution must not write to a closed control")
	}
	if notified != before {
		t.Fatal("late resolution must not notify")
	}

	// second close is a no-op
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestOpenFailure(t *testing.T) {
	opener := OpenerFunc(func(string) (Media, error) {
		return nil, errors.New("bad url")
	})
	c := New("::not a url", opener)

	s := c.Snapshot()
	if s.LastError != domain.MsgLoadFailed {
		t.Fatalf("LastError = %q, want %q", s.LastError, domain.MsgLoadFailed)
	}

	c.TogglePlayback()
	s = c.Snapshot()
	if s.IsPlaying || s.LastError != domain.MsgPlayFailed {
		t.Fatalf("play without media must fail, got %+v", s)
	}
	c.Seek(0.5)
}

func TestControlsAreIndependent(t *testing.T) {
	a := newFakeMedia(200*time.Second, true)
	b := newFakeMedia(100*time.Second, true)
	ca := New(sampleURL, openerFor(a))
	cb := New(sampleURL, openerFor(b))

	ca.TogglePlayback()
	a.resolve(errors.New("broken"))
	cb.TogglePlayback()
	b.resolve(nil)

	if sa := ca.Snapshot(); sa.IsPlaying || !sa.HasError() {
		t.Fatalf("first control should have failed: %+v", sa)
	}
	if sb := cb.Snapshot(); !sb.IsPlaying || sb.HasError() {
		t.Fatalf("second control should be unaffected: %+v", sb)
	}
}
