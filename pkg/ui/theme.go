package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles every style the dashboard renders with. Adapters receive a
// Theme at construction and again through ThemeChanged when the user toggles;
// they must never consult global state for colors.
type Theme struct {
	Dark bool

	Title       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style

	Border   lipgloss.Style
	BarFill  lipgloss.Style
	BarTrack lipgloss.Style
	Empty    lipgloss.Style
}

// NewTheme builds the style set for the given mode. When the terminal cannot
// render color the styles keep their layout attributes only.
func NewTheme(dark bool) Theme {
	t := Theme{Dark: dark}

	if !colorCapable() {
		t.Title = lipgloss.NewStyle().Bold(true)
		t.TabActive = lipgloss.NewStyle().Bold(true).Underline(true)
		t.TabInactive = lipgloss.NewStyle()
		t.Text = lipgloss.NewStyle()
		t.Muted = lipgloss.NewStyle().Faint(true)
		t.Accent = lipgloss.NewStyle()
		t.Error = lipgloss.NewStyle().Bold(true)
		t.Success = lipgloss.NewStyle()
		t.Warning = lipgloss.NewStyle()
		t.Selected = lipgloss.NewStyle().Reverse(true)
		t.Border = lipgloss.NewStyle()
		t.BarFill = lipgloss.NewStyle()
		t.BarTrack = lipgloss.NewStyle().Faint(true)
		t.Empty = lipgloss.NewStyle().Faint(true)
		return t
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(pairPrimary.color(dark))
	t.TabActive = lipgloss.NewStyle().Bold(true).
		Foreground(pairPrimary.color(dark)).
		Underline(true)
	t.TabInactive = lipgloss.NewStyle().Foreground(pairMuted.color(dark))

	t.Text = lipgloss.NewStyle().Foreground(pairText.color(dark))
	t.Muted = lipgloss.NewStyle().Foreground(pairMuted.color(dark))
	t.Accent = lipgloss.NewStyle().Foreground(pairAccent.color(dark))
	t.Error = lipgloss.NewStyle().Bold(true).Foreground(pairError.color(dark))
	t.Success = lipgloss.NewStyle().Foreground(pairSuccess.color(dark))
	t.Warning = lipgloss.NewStyle().Foreground(pairWarning.color(dark))
	t.Selected = lipgloss.NewStyle().
		Foreground(pairText.color(dark)).
		Background(pairSelBg.color(dark)).
		Bold(true)

	t.Border = lipgloss.NewStyle().Foreground(pairBorder.color(dark))
	t.BarFill = lipgloss.NewStyle().Foreground(pairBarFill.color(dark))
	t.BarTrack = lipgloss.NewStyle().Foreground(pairBarTrack.color(dark))
	t.Empty = lipgloss.NewStyle().Foreground(pairMuted.color(dark)).Italic(true)

	return t
}

// GlamourStyle names the glamour standard style matching this theme.
func (t Theme) GlamourStyle() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// TestTheme is a fixed theme for tests, independent of terminal detection.
func TestTheme() Theme {
	return NewTheme(true)
}
