package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mixtape/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even while typing a filter
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenSplash:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			m.Screen = ScreenWelcome
		}
		return m, nil

	case ScreenWelcome:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			m.enterGallery()
		}
		return m, nil
	}

	return m.handleGalleryKeys(msg)
}

// handleGalleryKeys handles keys on the song gallery
func (m Model) handleGalleryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Filter input takes every key while focused
	if m.Grid.IsFilterTyping() {
		m.Grid, cmd = m.Grid.Update(msg)
		m.syncSelection()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = !m.ShowHelp
		m.Help.ShowAll = m.ShowHelp

	case m.ShowHelp && key.Matches(msg, m.keys.Back):
		m.ShowHelp = false
		m.Help.ShowAll = false

	case key.Matches(msg, m.keys.Back):
		if m.Grid.IsFiltering() {
			m.Grid.ClearFilter()
			m.syncSelection()
			return m, nil
		}
		m.leaveGallery()

	case key.Matches(msg, m.keys.Toggle):
		m.withSelected(m.PlaybackSvc.Toggle)

	case key.Matches(msg, m.keys.SeekTo):
		tenths := float64(msg.String()[0]-'0') / 10
		m.withSelected(func(songID int) error {
			return m.PlaybackSvc.Seek(songID, tenths)
		})

	case key.Matches(msg, m.keys.SeekBack):
		m.withSelected(func(songID int) error {
			return m.PlaybackSvc.SeekBy(songID, -SeekStep)
		})

	case key.Matches(msg, m.keys.SeekForward):
		m.withSelected(func(songID int) error {
			return m.PlaybackSvc.SeekBy(songID, SeekStep)
		})

	case key.Matches(msg, m.keys.ScrollDown):
		m.Details.ScrollDown(DetailsScrollStep)

	case key.Matches(msg, m.keys.ScrollUp):
		m.Details.ScrollUp(DetailsScrollStep)

	default:
		m.Grid, cmd = m.Grid.Update(msg)
		m.syncSelection()
	}

	return m, cmd
}

// handleMouseMsg handles clicks on the gallery: the player bar toggles or
// seeks, a card selects its song, the back link leaves
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.Details.ScrollDown(1)
		return m, nil
	case tea.MouseButtonWheelUp:
		m.Details.ScrollUp(1)
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	switch {
	case msg.Y == 0 && msg.X < lipgloss.Width(backLabel):
		m.leaveGallery()

	case msg.Y == PlayerBarRow:
		song, _, ok := m.selectedState()
		if !ok {
			return m, nil
		}
		zone, offset := m.Player.HitTest(msg.X-PanelInnerX, song.HasAudio())
		switch zone {
		case components.ZoneToggle:
			m.withSelected(m.PlaybackSvc.Toggle)
		case components.ZoneTrack:
			width := m.Player.TrackWidth()
			m.withSelected(func(songID int) error {
				return m.PlaybackSvc.SeekAt(songID, offset, width)
			})
		}

	case msg.Y >= BodyTop && msg.X < m.body.gridWidth:
		if i, ok := m.Grid.IndexAt(msg.X, msg.Y-BodyTop); ok {
			m.Grid.SetCursor(i)
			m.syncSelection()
		}
	}

	return m, nil
}

// withSelected runs op against the selected song and refreshes the view
func (m *Model) withSelected(op func(songID int) error) {
	song := m.Grid.SelectedSong()
	if song == nil {
		return
	}
	if err := op(song.ID); err != nil {
		slog.Debug("playback operation failed", "song", song.ID, "error", err)
	}
	m.refreshPlayback()
}
