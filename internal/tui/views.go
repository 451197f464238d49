package tui

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mixtape/internal/tui/styles"
)

const (
	backLabel  = "← Back to Home"
	diveLabel  = "Dive Into Our Playlist →"
	blurbText  = "A collection of songs that tell our story, capture our moments, and express my love for you."
	blurbWidth = 60

	// Roughly one star per this many cells
	starDensity = 45
	starSeed    = 14
)

var starGlyphs = []string{styles.StarGlyph, "·", "*", "·"}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.Screen {
	case ScreenSplash:
		return m.renderSplash()
	case ScreenWelcome:
		return m.renderWelcome()
	default:
		return m.renderGallery()
	}
}

// renderSplash renders the pulsing heart shown while the app starts
func (m Model) renderSplash() string {
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		m.Spinner.View())
}

// renderWelcome renders the welcome page over a field of stars
func (m Model) renderWelcome() string {
	title := styles.TitleStyle.Render("Welcome to Our Playlist")
	recipient := styles.AccentStyle.Bold(true).Render(m.UI.Recipient + " ❤")
	blurb := styles.SubtitleStyle.
		Width(min(blurbWidth, max(m.Width-4, 1))).
		Align(lipgloss.Center).
		Render(blurbText)
	button := styles.ButtonStyle.Render(diveLabel)
	hint := styles.DimStyle.Render("press enter")

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, recipient, "", blurb, "", button, hint)
	footer := m.renderFooter()

	avail := m.Height - lipgloss.Height(footer)
	contentH := lipgloss.Height(content)
	top := max((avail-contentH)/2, 0)
	bottom := max(avail-contentH-top, 0)

	field := starField(m.Width, top+bottom, starSeed)

	var b strings.Builder
	for _, line := range field[:top] {
		b.WriteString(line + "\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.Width, lipgloss.Center, content))
	b.WriteString("\n")
	for _, line := range field[top:] {
		b.WriteString(line + "\n")
	}
	b.WriteString(footer)
	return b.String()
}

// starField returns height lines of width cells sprinkled with stars. The
// same seed always gives the same sky so resizing does not reshuffle it.
func starField(width, height int, seed uint64) []string {
	rng := rand.New(rand.NewPCG(seed, seed))
	star := lipgloss.NewStyle().Foreground(styles.Lavender)

	lines := make([]string, height)
	for y := range lines {
		var b strings.Builder
		for x := 0; x < width; x++ {
			if rng.IntN(starDensity) == 0 {
				b.WriteString(star.Render(starGlyphs[rng.IntN(len(starGlyphs))]))
				continue
			}
			b.WriteByte(' ')
		}
		lines[y] = b.String()
	}
	return lines
}

// renderGallery renders the song gallery: back link, player panel, card grid
// with the details panel, footer and help
func (m Model) renderGallery() string {
	header := styles.AccentStyle.Render(backLabel)
	count := styles.DimStyle.Render(fmt.Sprintf("%d songs", len(m.Songs)))
	if gap := m.Width - lipgloss.Width(header) - lipgloss.Width(count); gap > 0 {
		header += strings.Repeat(" ", gap) + count
	}

	sections := []string{
		header,
		"",
		m.renderPlayerPanel(),
		m.renderBody(),
		m.renderFooter(),
		m.renderHelpLine(),
	}
	return strings.Join(sections, "\n")
}

// renderPlayerPanel renders the control of the selected song
func (m Model) renderPlayerPanel() string {
	style := styles.PanelStyle
	inner := max(m.Width-style.GetHorizontalFrameSize(), 1)

	song, state, ok := m.selectedState()
	var content string
	if !ok {
		content = styles.DimStyle.Render("No song selected") + "\n \n "
	} else {
		title := styles.AccentStyle.Render(styles.NoteGlyph) + " " +
			styles.TitleStyle.Render(styles.Truncate(song.Title, inner/2)) +
			styles.SubtitleStyle.Render(" · "+styles.Truncate(song.Artist, inner/2-5))
		content = title + "\n" + m.Player.View(state, song.HasAudio())
	}

	return style.
		Width(max(m.Width-style.GetHorizontalBorderSize(), 0)).
		MaxHeight(PlayerPanelLines).
		Render(content)
}

// renderBody renders the grid beside the details panel, or the full help
func (m Model) renderBody() string {
	box := lipgloss.NewStyle().
		Width(m.body.gridWidth).
		Height(m.body.height).
		MaxHeight(m.body.height)

	left := m.Grid.View()
	if m.ShowHelp {
		left = m.Help.View(m.keys)
	}
	left = box.Render(left)

	if m.body.detailsWidth == 0 {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		left,
		strings.Repeat(" ", BodyGap),
		m.Details.View())
}

// renderFooter renders the credits and visit count
func (m Model) renderFooter() string {
	credit := fmt.Sprintf("Created with ❤ by %s  ·  Dedicated to the love of %s",
		styles.AccentStyle.Bold(true).Render(m.UI.Author),
		styles.AccentStyle.Bold(true).Render(m.UI.Recipient))
	rights := fmt.Sprintf("© %d All Rights Reserved.", m.Year)
	if m.VisitCount > 0 {
		rights += fmt.Sprintf("  ·  visit #%d", m.VisitCount)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.FooterStyle.Width(m.Width).Render(credit),
		styles.FooterStyle.Width(m.Width).Foreground(styles.DimGray).Render(rights))
}

// renderHelpLine renders the one-line key hints under the footer
func (m Model) renderHelpLine() string {
	if m.ShowHelp {
		return styles.DimStyle.Render("? close help")
	}
	return m.Help.View(m.keys)
}
