package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/mixtape/internal/config"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/service"
	"github.com/mmcdole/mixtape/internal/tui/components"
	"github.com/mmcdole/mixtape/internal/tui/styles"
)

// Screen represents which page of the application is showing
type Screen int

const (
	ScreenSplash Screen = iota
	ScreenWelcome
	ScreenGallery
)

// Playback tuning
const (
	// Relative seek step for , and .
	SeekStep = 0.05

	// Lines scrolled per J/K press
	DetailsScrollStep = 3

	// Pending change notifications before new ones are dropped. A dropped
	// notification is harmless: every refresh reads all states.
	playbackEventBuffer = 64

	// Frame rate of the splash heart
	heartFPS = time.Second / 4
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Screen   Screen
	Ready    bool
	ShowHelp bool

	// Services
	PlaybackSvc *service.PlaybackService

	// UI Components
	Grid    components.Grid
	Details components.Details
	Player  components.PlayerBar
	Spinner spinner.Model
	Help    help.Model

	// Data
	Songs      []domain.Song
	UI         config.UIConfig
	VisitCount int
	Year       int

	// Dimensions
	Width  int
	Height int
	body   bodyLayout

	keys   KeyMap
	events chan int
	states map[int]domain.PlaybackState
}

// NewModel creates a new application model
func NewModel(
	songs []domain.Song,
	playbackSvc *service.PlaybackService,
	ui config.UIConfig,
	visitCount int,
) Model {
	styles.SetAccent(ui.Accent)

	events := make(chan int, playbackEventBuffer)
	playbackSvc.SetNotify(func(songID int) {
		select {
		case events <- songID:
		default:
		}
	})

	grid := components.NewGrid(ui.GridColumns)
	grid.SetSongs(songs)

	player := components.NewPlayerBar()
	player.SetAccent(string(styles.Accent))

	m := Model{
		Screen:      ScreenSplash,
		PlaybackSvc: playbackSvc,
		Grid:        grid,
		Details:     components.NewDetails(),
		Player:      player,
		Spinner: spinner.New(
			spinner.WithSpinner(spinner.Spinner{Frames: styles.HeartFrames, FPS: heartFPS}),
			spinner.WithStyle(styles.AccentStyle),
		),
		Help:       newHelp(),
		Songs:      songs,
		UI:         ui,
		VisitCount: visitCount,
		Year:       time.Now().Year(),
		keys:       DefaultKeyMap(),
		events:     events,
	}
	m.syncSelection()
	return m
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = styles.HelpKeyStyle
	h.Styles.ShortDesc = styles.HelpDescStyle
	h.Styles.FullKey = styles.HelpKeyStyle
	h.Styles.FullDesc = styles.HelpDescStyle
	return h
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		SplashCmd(m.UI.SplashDuration),
		WaitForPlaybackCmd(m.events),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case spinner.TickMsg:
		// Let the tick chain die once the splash is gone
		if m.Screen != ScreenSplash {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case splashDoneMsg:
		if m.Screen == ScreenSplash {
			m.Screen = ScreenWelcome
		}
		return m, nil

	case PlaybackChangedMsg:
		m.refreshPlayback()
		return m, WaitForPlaybackCmd(m.events)

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case tea.MouseMsg:
		if m.Screen != ScreenGallery {
			return m, nil
		}
		return m.handleMouseMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	// Cursor blink and friends for the filter input
	if m.Screen == ScreenGallery && m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Close releases every playback control. Safe to call more than once.
func (m Model) Close() {
	m.PlaybackSvc.Unmount()
}

// enterGallery shows the song gallery and binds one control per song
func (m *Model) enterGallery() {
	m.Screen = ScreenGallery
	m.PlaybackSvc.Mount(m.Songs)
	m.syncSelection()
	m.refreshPlayback()
	m.updateLayout()
}

// leaveGallery returns to the welcome screen, releasing every control
func (m *Model) leaveGallery() {
	m.PlaybackSvc.Unmount()
	m.states = nil
	m.Grid.SetStates(nil)
	m.Grid.ClearFilter()
	m.ShowHelp = false
	m.Help.ShowAll = false
	m.Screen = ScreenWelcome
}

// refreshPlayback copies every mounted control's state into the view
func (m *Model) refreshPlayback() {
	if m.Screen != ScreenGallery {
		return
	}
	m.states = m.PlaybackSvc.States()
	m.Grid.SetStates(m.states)
}

// syncSelection points the details panel at the grid's cursor
func (m *Model) syncSelection() {
	m.Details.SetSong(m.Grid.SelectedSong())
}

// selectedState returns the playback state of the selected song
func (m Model) selectedState() (domain.Song, domain.PlaybackState, bool) {
	song := m.Grid.SelectedSong()
	if song == nil {
		return domain.Song{}, domain.PlaybackState{}, false
	}
	return *song, m.states[song.ID], true
}

// applyConfig picks up UI settings after the config file changed
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	ui := cfg.UI
	ui.SplashDuration = m.UI.SplashDuration
	m.UI = ui

	styles.SetAccent(ui.Accent)
	m.Player.SetAccent(string(styles.Accent))
	m.Spinner.Style = styles.AccentStyle
	m.Help = newHelp()
	m.Help.ShowAll = m.ShowHelp
	m.Grid.SetColumns(ui.GridColumns)
	m.updateLayout()
}
