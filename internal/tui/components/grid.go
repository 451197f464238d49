package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Layout constants for grid
const (
	// Each card: border top/bottom + title, artist and status lines
	CardHeight = 5

	// Border (2) + padding (2)
	CardFrameWidth = 4

	// Gap between cards in a row
	CardGap = 1

	// Filter bar takes one line when active
	FilterBarLines = 1

	MinCardWidth = 14
)

// Grid shows songs as cards, several per row
type Grid struct {
	songs  []domain.Song
	states map[int]domain.PlaybackState

	// Selection
	cursor    int
	rowOffset int
	columns   int

	// Dimensions
	width  int
	height int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into songs

	keys GridKeyMap
}

// NewGrid creates a new grid component
func NewGrid(columns int) Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	if columns < 1 {
		columns = 1
	}
	return Grid{
		columns:     columns,
		filterInput: ti,
		keys:        DefaultGridKeyMap(),
	}
}

// SetSongs sets grid content
func (g *Grid) SetSongs(songs []domain.Song) {
	g.songs = songs
	g.cursor = 0
	g.rowOffset = 0
	g.clearFilter()
}

// SetStates updates the playback state shown on each card
func (g *Grid) SetStates(states map[int]domain.PlaybackState) {
	g.states = states
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.ensureVisible()
}

// SetColumns changes the number of cards per row
func (g *Grid) SetColumns(columns int) {
	if columns < 1 {
		columns = 1
	}
	g.columns = columns
	g.ensureVisible()
}

// Columns returns the effective number of cards per row, reduced when the
// grid is too narrow for the configured count
func (g Grid) Columns() int {
	cols := g.columns
	for cols > 1 && g.width > 0 && g.cardWidth(cols) < MinCardWidth {
		cols--
	}
	return cols
}

func (g Grid) cardWidth(cols int) int {
	return (g.width-CardGap*(cols-1))/cols - CardFrameWidth
}

// visibleRows returns how many card rows fit
func (g Grid) visibleRows() int {
	h := g.height
	if g.filterActive {
		h -= FilterBarLines
	}
	rows := h / CardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// IndexAt maps a cell relative to the grid's top-left corner to a cursor
// position. It reports false for gaps, the filter bar and empty slots.
func (g Grid) IndexAt(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	cols := g.Columns()
	cell := g.cardWidth(cols) + CardFrameWidth + CardGap
	if cell <= CardGap {
		return 0, false
	}
	col := x / cell
	if col >= cols || x%cell >= cell-CardGap {
		return 0, false
	}
	row := y / CardHeight
	if row >= g.visibleRows() {
		return 0, false
	}
	i := (g.rowOffset+row)*cols + col
	if i >= g.itemCount() {
		return 0, false
	}
	return i, true
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position
func (g *Grid) SetCursor(pos int) {
	max := g.itemCount() - 1
	if max < 0 {
		g.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	g.cursor = pos
	g.ensureVisible()
}

// SelectedSong returns the song under the cursor, or nil if there is none
func (g Grid) SelectedSong() *domain.Song {
	if g.cursor >= g.itemCount() {
		return nil
	}
	return &g.songs[g.mapIndex(g.cursor)]
}

// IsEmpty returns true if there are no items
func (g Grid) IsEmpty() bool {
	return g.itemCount() == 0
}

// ensureVisible keeps the cursor's row on screen
func (g *Grid) ensureVisible() {
	row := g.cursor / g.Columns()
	rows := g.visibleRows()
	if row < g.rowOffset {
		g.rowOffset = row
	}
	if row >= g.rowOffset+rows {
		g.rowOffset = row - rows + 1
	}
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.ensureVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
}

// songSource implements fuzzy.Source over title and artist
type songSource []domain.Song

func (s songSource) String(i int) string {
	return strings.ToLower(s[i].Title + " " + s[i].Artist)
}

func (s songSource) Len() int { return len(s) }

// applyFilter filters items based on the current query
func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), songSource(g.songs))

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	g.cursor = 0
	g.rowOffset = 0
}

// itemCount returns the number of items after filtering
func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.songs)
}

// mapIndex maps a cursor position to the actual index in the data
func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Update handles messages
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	// Handle filter input when typing
	if g.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				// Accept filter, blur input to allow navigation
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}

	switch {
	case g.filterActive && key.Matches(keyMsg, g.keys.Escape):
		g.clearFilter()
		return g, nil
	case key.Matches(keyMsg, g.keys.Filter):
		g.ToggleFilter()
		return g, textinput.Blink
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}
	cols := g.Columns()

	switch {
	case key.Matches(keyMsg, g.keys.Left):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(keyMsg, g.keys.Right):
		if g.cursor < count-1 {
			g.cursor++
		}
	case key.Matches(keyMsg, g.keys.Up):
		if g.cursor-cols >= 0 {
			g.cursor -= cols
		}
	case key.Matches(keyMsg, g.keys.Down):
		if g.cursor+cols < count {
			g.cursor += cols
		} else if g.cursor/cols < (count-1)/cols {
			// partial last row
			g.cursor = count - 1
		}
	case key.Matches(keyMsg, g.keys.Home):
		g.cursor = 0
	case key.Matches(keyMsg, g.keys.End):
		g.cursor = count - 1
	}
	g.ensureVisible()
	return g, nil
}

// View renders the component
func (g Grid) View() string {
	count := g.itemCount()
	if count == 0 {
		empty := styles.DimStyle.Render("No songs")
		if g.filterActive && g.filterQuery != "" {
			empty = styles.DimStyle.Render("No matches")
		}
		if g.filterActive {
			empty += "\n" + g.renderFilterBar()
		}
		return empty
	}

	cols := g.Columns()
	cardW := g.cardWidth(cols)
	if cardW < 1 {
		cardW = 1
	}

	start := g.rowOffset * cols
	end := start + g.visibleRows()*cols
	if end > count {
		end = count
	}

	var rows []string
	for rowStart := start; rowStart < end; rowStart += cols {
		var cards []string
		for i := rowStart; i < rowStart+cols && i < end; i++ {
			if i > rowStart {
				cards = append(cards, strings.Repeat(" ", CardGap))
			}
			cards = append(cards, g.renderCard(g.songs[g.mapIndex(i)], i == g.cursor, cardW))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

// renderCard renders one song card
func (g Grid) renderCard(song domain.Song, selected bool, width int) string {
	style := styles.CardStyle
	if selected {
		style = styles.CardSelectedStyle
	}

	title := styles.AccentStyle.Render(styles.NoteGlyph) + " " +
		styles.TitleStyle.Render(styles.Truncate(song.Title, width-2))
	artist := styles.SubtitleStyle.Render(styles.Truncate(song.Artist, width))
	status := g.renderStatus(song)

	// Width counts padding but not the border
	return style.Width(width + style.GetHorizontalPadding()).Render(title + "\n" + artist + "\n" + status)
}

// renderStatus renders the one-line playback indicator on a card
func (g Grid) renderStatus(song domain.Song) string {
	if !song.HasAudio() {
		return styles.DimStyle.Render("no audio")
	}
	state, ok := g.states[song.ID]
	if !ok {
		return " "
	}
	switch {
	case state.IsPlaying:
		return styles.AccentStyle.Render(fmt.Sprintf("%s %3.0f%%", styles.PauseGlyph, state.Progress*100))
	case state.Status == domain.StatusPlayPending:
		return styles.DimStyle.Render(styles.WaitGlyph + " loading")
	case state.HasError():
		return styles.ErrorStyle.Render("! error")
	case state.Progress > 0:
		return styles.DimStyle.Render(fmt.Sprintf("%s %3.0f%%", styles.PlayGlyph, state.Progress*100))
	default:
		return styles.DimStyle.Render(styles.PlayGlyph)
	}
}

// renderFilterBar renders the filter input bar
func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()
	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.songs)))
	}
	return input + countStr
}
