package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/tui/styles"
)

// Details shows the selected song's cover reference, lyrics and comment in a
// scrollable panel
type Details struct {
	viewport viewport.Model
	songID   int
	width    int
	height   int
}

// NewDetails creates the details panel
func NewDetails() Details {
	return Details{viewport: viewport.New(0, 0)}
}

// SetSize updates the component dimensions
func (d *Details) SetSize(width, height int) {
	d.width = width
	d.height = height
	frameW, frameH := styles.PanelStyle.GetFrameSize()
	d.viewport.Width = max(width-frameW, 1)
	d.viewport.Height = max(height-frameH, 1)
}

// SetSong shows song, resetting the scroll position when it changes
func (d *Details) SetSong(song *domain.Song) {
	if song == nil {
		d.songID = 0
		d.viewport.SetContent(styles.DimStyle.Render("No song selected"))
		return
	}
	changed := song.ID != d.songID
	d.songID = song.ID
	d.viewport.SetContent(d.render(*song))
	if changed {
		d.viewport.GotoTop()
	}
}

// ScrollDown scrolls the panel by n lines
func (d *Details) ScrollDown(n int) {
	d.viewport.SetYOffset(d.viewport.YOffset + n)
}

// ScrollUp scrolls the panel by n lines
func (d *Details) ScrollUp(n int) {
	d.viewport.SetYOffset(d.viewport.YOffset - n)
}

// View renders the component
func (d Details) View() string {
	style := styles.PanelStyle
	return style.
		Width(max(d.width-style.GetHorizontalBorderSize(), 0)).
		Height(max(d.height-style.GetVerticalBorderSize(), 0)).
		Render(d.viewport.View())
}

func (d Details) render(song domain.Song) string {
	width := d.viewport.Width
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(song.Title))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(song.Artist))
	b.WriteString("\n")
	if song.ImageURL != "" {
		b.WriteString(styles.DimStyle.Render(styles.Truncate("cover: "+song.Caption(), width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentStyle.Render(styles.QuoteGlyph) + " " + styles.TitleStyle.Render("Lyrics"))
	b.WriteString("\n")
	lyrics := song.Lyrics
	if strings.TrimSpace(lyrics) == "" {
		lyrics = "No lyrics yet."
	}
	b.WriteString(wrap.Foreground(styles.Lavender).Italic(true).Render(lyrics))
	b.WriteString("\n\n")

	if song.Comment != "" {
		b.WriteString(styles.AccentStyle.Render(styles.StarGlyph) + " " + styles.TitleStyle.Render("Why this song"))
		b.WriteString("\n")
		b.WriteString(wrap.Foreground(styles.White).Render(song.Comment))
	}
	return b.String()
}
