package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/mixtape/internal/config"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/player"
	"github.com/mmcdole/mixtape/internal/service"
	"github.com/mmcdole/mixtape/internal/tui/components"
)

const (
	goodURL = "https://example.com/tum-se-hi.mp3"
	badURL  = "https://example.com/broken.mp3"
)

// stubMedia resolves play requests immediately with err
type stubMedia struct {
	mu       sync.Mutex
	err      error
	duration time.Duration
	pos      time.Duration
}

func (s *stubMedia) Play(done func(error)) { done(s.err) }
func (s *stubMedia) Pause()                {}
func (s *stubMedia) Seek(pos time.Duration) error {
	s.mu.Lock()
	s.pos = pos
	s.mu.Unlock()
	return nil
}
func (s *stubMedia) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}
func (s *stubMedia) Duration() (time.Duration, bool)     { return s.duration, true }
func (s *stubMedia) Subscribe(func(player.Event)) func() { return func() {} }
func (s *stubMedia) Close() error                        { return nil }

func newTestModel(t *testing.T) (Model, *service.PlaybackService) {
	t.Helper()

	songs := []domain.Song{
		{ID: 1, Title: "Tum Se Hi", Artist: "Mohit Chauhan", AudioURL: goodURL},
		{ID: 2, Title: "Silence", Artist: "Nobody"},
		{ID: 3, Title: "Broken Promise", Artist: "Somebody", AudioURL: badURL},
	}
	media := map[string]*stubMedia{
		goodURL: {duration: 200 * time.Second},
		badURL:  {duration: 200 * time.Second, err: errors.New("decode failed")},
	}
	opener := player.OpenerFunc(func(ref string) (player.Media, error) {
		return media[ref], nil
	})

	svc := service.NewPlaybackService(opener, nil)
	ui := config.DefaultConfig().UI
	m := NewModel(songs, svc, ui, 7)
	t.Cleanup(m.Close)

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, svc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func inGallery(t *testing.T) (Model, *service.PlaybackService) {
	t.Helper()
	m, svc := newTestModel(t)
	m = update(t, m, splashDoneMsg{})
	m = update(t, m, keyPress("enter"))
	if m.Screen != ScreenGallery {
		t.Fatalf("screen = %v, want gallery", m.Screen)
	}
	return m, svc
}

func TestSplashAdvancesToWelcome(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Screen != ScreenSplash {
		t.Fatalf("screen = %v, want splash", m.Screen)
	}

	m = update(t, m, splashDoneMsg{})
	if m.Screen != ScreenWelcome {
		t.Fatalf("screen = %v, want welcome", m.Screen)
	}

	view := m.View()
	for _, want := range []string{"Welcome to Our Playlist", "Saranya", "Dive Into Our Playlist", "visit #7"} {
		if !strings.Contains(view, want) {
			t.Errorf("welcome view missing %q", want)
		}
	}
}

func TestViewBeforeWindowSize(t *testing.T) {
	svc := service.NewPlaybackService(player.OpenerFunc(func(string) (player.Media, error) {
		return &stubMedia{}, nil
	}), nil)
	m := NewModel(nil, svc, config.DefaultConfig().UI, 0)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestEnterAndLeaveGallery(t *testing.T) {
	m, svc := inGallery(t)

	if got := svc.Mounted(); got != 3 {
		t.Fatalf("Mounted() = %d, want 3", got)
	}
	view := m.View()
	for _, want := range []string{"Back to Home", "Tum Se Hi", "Mohit Chauhan", "3 songs"} {
		if !strings.Contains(view, want) {
			t.Errorf("gallery view missing %q", want)
		}
	}

	m = update(t, m, keyPress("esc"))
	if m.Screen != ScreenWelcome {
		t.Fatalf("screen = %v, want welcome", m.Screen)
	}
	if got := svc.Mounted(); got != 0 {
		t.Errorf("Mounted() after leaving = %d, want 0", got)
	}
}

func TestToggleFromKeyboard(t *testing.T) {
	m, svc := inGallery(t)

	m = update(t, m, keyPress("p"))
	state, _, err := svc.State(1)
	if err != nil {
		t.Fatal(err)
	}
	if !state.IsPlaying {
		t.Fatal("song 1 should be playing")
	}
	if !m.states[1].IsPlaying {
		t.Error("model did not pick up the playing state")
	}

	m = update(t, m, keyPress("p"))
	if m.states[1].IsPlaying {
		t.Error("song 1 should be paused")
	}
}

func TestDigitSeeks(t *testing.T) {
	m, svc := inGallery(t)

	m = update(t, m, keyPress("5"))
	state, _, _ := svc.State(1)
	if state.Progress != 0.5 {
		t.Errorf("progress = %v, want 0.5", state.Progress)
	}
	if state.Position != 100*time.Second {
		t.Errorf("position = %v, want 100s", state.Position)
	}

	m = update(t, m, keyPress("."))
	state, _, _ = svc.State(1)
	if state.Position != 110*time.Second {
		t.Errorf("position after step = %v, want 110s", state.Position)
	}
}

func TestMouseOnPlayerBar(t *testing.T) {
	m, svc := inGallery(t)

	// Click the glyph
	m = update(t, m, click(PanelInnerX+1, PlayerBarRow))
	state, _, _ := svc.State(1)
	if !state.IsPlaying {
		t.Fatal("click on the toggle should start playback")
	}

	// Click a quarter of the way along the track
	width := m.Player.TrackWidth()
	offset := width / 4
	m = update(t, m, click(PanelInnerX+components.TrackOffset+offset, PlayerBarRow))
	state, _, _ = svc.State(1)
	want := float64(offset) / float64(width-1)
	if diff := state.Progress - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("progress = %v, want %v", state.Progress, want)
	}
	if !state.IsPlaying {
		t.Error("seeking should not stop playback")
	}
}

func TestClickSelectsCard(t *testing.T) {
	m, _ := inGallery(t)

	cols := m.Grid.Columns()
	if cols < 2 {
		t.Skipf("grid has %d columns", cols)
	}
	// Second card sits one cell width to the right of the first
	x := m.body.gridWidth / cols
	m = update(t, m, click(x+1, BodyTop+1))
	if got := m.Grid.Cursor(); got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}
}

func TestMissingAudioShowsNotice(t *testing.T) {
	m, svc := inGallery(t)

	m = update(t, m, keyPress("l"))
	if song := m.Grid.SelectedSong(); song == nil || song.ID != 2 {
		t.Fatalf("selected = %v, want song 2", song)
	}
	if !strings.Contains(m.View(), domain.MsgNoAudio) {
		t.Errorf("view missing %q", domain.MsgNoAudio)
	}

	m = update(t, m, keyPress("p"))
	state, available, _ := svc.State(2)
	if available {
		t.Error("song without audio reported available")
	}
	if state.IsPlaying || state.HasError() {
		t.Errorf("state = %+v, want untouched", state)
	}
}

func TestPlayFailureIsShownAndIsolated(t *testing.T) {
	m, svc := inGallery(t)

	m = update(t, m, keyPress("p"))
	m = update(t, m, keyPress("l"))
	m = update(t, m, keyPress("l"))
	m = update(t, m, keyPress("p"))

	if !strings.Contains(m.View(), domain.MsgPlayFailed) {
		t.Errorf("view missing %q", domain.MsgPlayFailed)
	}
	state, _, _ := svc.State(1)
	if !state.IsPlaying {
		t.Error("failure of one song affected another")
	}
}

func TestPlaybackNotificationsReachModel(t *testing.T) {
	m, _ := inGallery(t)

	m = update(t, m, keyPress("p"))
	msg := WaitForPlaybackCmd(m.events)()
	changed, ok := msg.(PlaybackChangedMsg)
	if !ok {
		t.Fatalf("got %T, want PlaybackChangedMsg", msg)
	}
	if changed.SongID != 1 {
		t.Errorf("SongID = %d, want 1", changed.SongID)
	}

	next, cmd := m.Update(changed)
	if cmd == nil {
		t.Error("expected the model to keep waiting for playback changes")
	}
	if !next.(Model).states[1].IsPlaying {
		t.Error("state not refreshed")
	}
}

func TestConfigReload(t *testing.T) {
	m, _ := inGallery(t)

	cfg := config.DefaultConfig()
	cfg.UI.GridColumns = 1
	cfg.UI.Recipient = "Meera"
	m = update(t, m, ConfigReloadedMsg{Config: cfg})

	if got := m.Grid.Columns(); got != 1 {
		t.Errorf("columns = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "Meera") {
		t.Error("footer did not pick up the new recipient")
	}
}

func TestQuitReleasesControls(t *testing.T) {
	m, svc := inGallery(t)

	_, cmd := m.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if got := svc.Mounted(); got != 0 {
		t.Errorf("Mounted() = %d, want 0", got)
	}
}

func TestFilterTypingDoesNotTogglePlayback(t *testing.T) {
	m, svc := inGallery(t)

	m = update(t, m, keyPress("/"))
	for _, r := range "pro" {
		m = update(t, m, keyPress(string(r)))
	}
	if state, _, _ := svc.State(1); state.IsPlaying {
		t.Error("typing p in the filter toggled playback")
	}
	if song := m.Grid.SelectedSong(); song == nil || song.ID != 3 {
		t.Errorf("selected = %v, want song 3", song)
	}
}

func TestStarFieldIsStable(t *testing.T) {
	a := starField(40, 5, starSeed)
	b := starField(40, 5, starSeed)
	if len(a) != 5 {
		t.Fatalf("len = %d, want 5", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("line %d differs between runs", i)
		}
	}
}
