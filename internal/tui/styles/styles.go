package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Pink       = lipgloss.Color("#EC4899")
	PinkLight  = lipgloss.Color("#F9A8D4")
	Purple     = lipgloss.Color("#7C3AED")
	PurpleDark = lipgloss.Color("#3B0764")
	Lavender   = lipgloss.Color("#E9D5FF")
	DimGray    = lipgloss.Color("#6B7280")
	White      = lipgloss.Color("#F9FAFB")
	Red        = lipgloss.Color("#F87171")
)

// Accent is the highlight color; SetAccent replaces it at runtime
var Accent = Pink

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Lavender)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(Purple).
			Background(White).
			Bold(true).
			Padding(0, 3)
)

// Heart glyphs for the splash pulse
var HeartFrames = []string{"♡", "♥", "❤", "♥"}

// Player glyphs
const (
	PlayGlyph  = "▶"
	PauseGlyph = "❚❚"
	WaitGlyph  = "…"
	NoteGlyph  = "♫"
	QuoteGlyph = "❝"
	StarGlyph  = "✦"
)

// Card styles
var (
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	CardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Accent).
				Padding(0, 1)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Purple).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Lavender).
			Align(lipgloss.Center)
)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(Accent)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Accent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// SetAccent switches every accent-colored style to color
func SetAccent(color string) {
	if color == "" {
		return
	}
	Accent = lipgloss.Color(color)
	AccentStyle = AccentStyle.Foreground(Accent)
	CardSelectedStyle = CardSelectedStyle.BorderForeground(Accent)
	FilterStyle = FilterStyle.Foreground(Accent)
	FilterPromptStyle = FilterPromptStyle.Foreground(Accent)
	HelpKeyStyle = HelpKeyStyle.Foreground(Accent)
}

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
