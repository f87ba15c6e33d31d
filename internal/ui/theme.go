package ui

import (
	"github.com/charmbracelet/lipgloss"

	"standup/internal/model"
	"standup/internal/storage"
)

// palette holds the colours one theme needs. Light values are darker so
// they stay readable on light terminals.
type palette struct {
	fg, muted, accent, selectedBg string
	low, medium, high, ok, danger string
	badgeFg, flashFg              string
}

var palettes = map[string]palette{
	storage.ThemeLight: {
		fg: "235", muted: "240", accent: "27", selectedBg: "#e9e9e9",
		low: "28", medium: "130", high: "160", ok: "#10b981", danger: "#ef4444",
		badgeFg: "255", flashFg: "#ffffff",
	},
	storage.ThemeDark: {
		fg: "252", muted: "245", accent: "62", selectedBg: "#262626",
		low: "35", medium: "214", high: "203", ok: "#10b981", danger: "#ef4444",
		badgeFg: "235", flashFg: "#ffffff",
	},
}

type styles struct {
	title         lipgloss.Style
	header        lipgloss.Style
	headerFocused lipgloss.Style
	text          lipgloss.Style
	done          lipgloss.Style
	selected      lipgloss.Style
	muted         lipgloss.Style
	badges        map[model.Priority]lipgloss.Style
	ok            lipgloss.Style
	danger        lipgloss.Style
}

func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[storage.ThemeLight]
	}
	badge := func(bg string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(p.badgeFg)).Background(lipgloss.Color(bg)).Padding(0, 1)
	}
	flash := func(bg string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(p.flashFg)).Background(lipgloss.Color(bg)).Padding(0, 1)
	}
	return styles{
		title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.fg)),
		header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.muted)),
		headerFocused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		text:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.fg)),
		done:          lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Strikethrough(true).Faint(true),
		selected:      lipgloss.NewStyle().Background(lipgloss.Color(p.selectedBg)),
		muted:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		badges: map[model.Priority]lipgloss.Style{
			model.Low:    badge(p.low),
			model.Medium: badge(p.medium),
			model.High:   badge(p.high),
		},
		ok:     flash(p.ok),
		danger: flash(p.danger),
	}
}

func (s styles) badge(p model.Priority) string {
	st, ok := s.badges[p]
	if !ok {
		st = s.muted
	}
	return st.Render(string(p))
}

func otherTheme(theme string) string {
	if theme == storage.ThemeDark {
		return storage.ThemeLight
	}
	return storage.ThemeDark
}
