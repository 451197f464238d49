package tui

import "github.com/mmcdole/mixtape/internal/tui/styles"

// Gallery layout, top to bottom:
//
//	row 0        back link
//	row 1        blank
//	rows 2..6    player panel (border, song title, player bar, status, border)
//	rows 7..     card grid | details panel
//	last rows    footer, help line
const (
	HeaderLines = 2

	PlayerPanelTop   = HeaderLines
	PlayerPanelLines = 5

	// Row of the player bar: panel top + border + title line
	PlayerBarRow = PlayerPanelTop + 2

	// Column where panel content starts: border + padding
	PanelInnerX = 2

	BodyTop = PlayerPanelTop + PlayerPanelLines

	FooterLines = 2
	HelpLines   = 1

	// Details panel share of the body width
	DetailsPercent  = 40
	MinDetailsWidth = 28
	MinGridWidth    = 24
	BodyGap         = 1
)

// bodyLayout holds calculated widths for the gallery body
type bodyLayout struct {
	gridWidth    int
	detailsWidth int // 0 if not shown
	height       int
}

// calculateBodyLayout splits the body between grid and details, dropping the
// details panel when the window is too narrow for both
func (m Model) calculateBodyLayout() bodyLayout {
	layout := bodyLayout{
		gridWidth: m.Width,
		height:    max(m.Height-BodyTop-FooterLines-HelpLines, 1),
	}

	details := max(m.Width*DetailsPercent/100, MinDetailsWidth)
	if m.Width-details-BodyGap >= MinGridWidth {
		layout.detailsWidth = details
		layout.gridWidth = m.Width - details - BodyGap
	}
	return layout
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	m.Help.Width = m.Width
	m.Player.SetWidth(m.Width - styles.PanelStyle.GetHorizontalFrameSize())

	m.body = m.calculateBodyLayout()
	m.Grid.SetSize(m.body.gridWidth, m.body.height)
	if m.body.detailsWidth > 0 {
		m.Details.SetSize(m.body.detailsWidth, m.body.height)
	}
}
