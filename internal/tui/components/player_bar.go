package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/tui/styles"
)

// Layout constants for the player bar
const (
	// Glyph button occupies columns [0, ToggleWidth)
	ToggleWidth = 4

	// Track starts after the button
	TrackOffset = ToggleWidth

	// " 00:00 / 00:00"
	ClockWidth = 14

	MinTrackWidth = 10
)

// PlayerZone identifies the part of the player bar under a column
type PlayerZone int

const (
	ZoneNone PlayerZone = iota
	ZoneToggle
	ZoneTrack
)

// PlayerBar renders one playback control: toggle glyph, seekable track and
// clock, with an optional error line underneath.
type PlayerBar struct {
	width int
	track progress.Model
}

// NewPlayerBar creates a player bar
func NewPlayerBar() PlayerBar {
	return PlayerBar{
		track: progress.New(
			progress.WithSolidFill(string(styles.Accent)),
			progress.WithoutPercentage(),
		),
	}
}

// SetWidth sets the total width of the bar
func (p *PlayerBar) SetWidth(width int) {
	p.width = width
	p.track.Width = p.TrackWidth()
}

// SetAccent recolors the track fill
func (p *PlayerBar) SetAccent(color string) {
	p.track.FullColor = color
}

// TrackWidth returns the width of the seekable track
func (p PlayerBar) TrackWidth() int {
	w := p.width - TrackOffset - ClockWidth
	if w < MinTrackWidth {
		w = MinTrackWidth
	}
	return w
}

// HitTest maps a column (relative to the bar) to a zone. For ZoneTrack it
// also returns the offset into the track.
func (p PlayerBar) HitTest(x int, available bool) (PlayerZone, int) {
	if !available || x < 0 {
		return ZoneNone, 0
	}
	if x < ToggleWidth {
		return ZoneToggle, 0
	}
	if off := x - TrackOffset; off < p.TrackWidth() {
		return ZoneTrack, off
	}
	return ZoneNone, 0
}

// View renders the control's player line and status line
func (p PlayerBar) View(state domain.PlaybackState, available bool) string {
	if !available {
		return styles.ErrorStyle.Render(domain.MsgNoAudio) + "\n" + " "
	}

	glyph := styles.PlayGlyph
	switch {
	case state.IsPlaying:
		glyph = styles.PauseGlyph
	case state.Status == domain.StatusPlayPending:
		glyph = styles.WaitGlyph
	}
	button := lipgloss.NewStyle().
		Width(ToggleWidth).
		Foreground(styles.Accent).
		Bold(true).
		Render(" " + glyph)

	clock := styles.DimStyle.Render(fmt.Sprintf(" %s / %s",
		FormatClock(state.Position, true),
		FormatClock(state.Duration, state.DurationKnown)))

	line := button + p.track.ViewAs(state.Progress) + clock

	status := " "
	if state.HasError() {
		status = styles.ErrorStyle.Render(state.LastError)
	}
	return line + "\n" + status
}

// FormatClock formats d as mm:ss, or --:-- when unknown
func FormatClock(d time.Duration, known bool) string {
	if !known || d < 0 {
		return "--:--"
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
