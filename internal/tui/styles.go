package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/store"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var (
	darkPalette = palette{
		primary:   lipgloss.Color("#6C63FF"),
		secondary: lipgloss.Color("#2EC4B6"),
		accent:    lipgloss.Color("#FF6B6B"),
		muted:     lipgloss.Color("#666666"),
		success:   lipgloss.Color("#2ECC71"),
		warning:   lipgloss.Color("#F39C12"),
		err:       lipgloss.Color("#E74C3C"),
		fg:        lipgloss.Color("#C0CAF5"),
		subtle:    lipgloss.Color("#414868"),
		highlight: lipgloss.Color("#7AA2F7"),
	}
	lightPalette = palette{
		primary:   lipgloss.Color("#4B3FD9"),
		secondary: lipgloss.Color("#138A80"),
		accent:    lipgloss.Color("#D64545"),
		muted:     lipgloss.Color("#8A8A8A"),
		success:   lipgloss.Color("#1E8449"),
		warning:   lipgloss.Color("#B9770E"),
		err:       lipgloss.Color("#C0392B"),
		fg:        lipgloss.Color("#1F2335"),
		subtle:    lipgloss.Color("#C8CCD8"),
		highlight: lipgloss.Color("#2E5CB8"),
	}
)

// styles is the rendered look of the interface for one theme. The App owns
// a single instance and every view holds a pointer to it, so a theme switch
// is visible everywhere at once.
type styles struct {
	theme  store.Theme
	colors palette

	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style

	panel       lipgloss.Style
	activePanel lipgloss.Style

	title     lipgloss.Style
	subtitle  lipgloss.Style
	accent    lipgloss.Style
	success   lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style
	total     lipgloss.Style

	header lipgloss.Style
	footer lipgloss.Style

	selectedItem lipgloss.Style
	normalItem   lipgloss.Style
}

func newStyles(theme store.Theme) *styles {
	p := lightPalette
	if theme == store.ThemeDark {
		p = darkPalette
	} else {
		theme = store.ThemeLight
	}

	return &styles{
		theme:  theme,
		colors: p,

		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(p.primary).
			Padding(0, 2),
		inactiveTab: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.subtle).
			Padding(1, 2),
		activePanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),

		title:     lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		subtitle:  lipgloss.NewStyle().Foreground(p.muted),
		accent:    lipgloss.NewStyle().Foreground(p.accent),
		success:   lipgloss.NewStyle().Foreground(p.success),
		warning:   lipgloss.NewStyle().Foreground(p.warning),
		errorText: lipgloss.NewStyle().Foreground(p.err),
		muted:     lipgloss.NewStyle().Foreground(p.muted),
		highlight: lipgloss.NewStyle().Foreground(p.highlight),
		total:     lipgloss.NewStyle().Bold(true).Foreground(p.secondary),

		header: lipgloss.NewStyle().Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),

		selectedItem: lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		normalItem:   lipgloss.NewStyle().Foreground(p.fg),
	}
}

// barColors cycles through the palette for per-employer chart bars.
func (s *styles) barColors() []lipgloss.Color {
	c := s.colors
	return []lipgloss.Color{c.primary, c.secondary, c.accent, c.warning, c.success, c.highlight}
}
