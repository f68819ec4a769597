package ui

import "github.com/Ilovko/r6s/internal/domain"

type palette struct {
	Page    string
	Panel   string
	Text    string
	Border  string
	Barrier string
	Attack  string
	Defense string
}

var palettes = map[domain.Theme]palette{
	domain.ThemeLight: {Page: "#f8fafc", Panel: "#ffffff", Text: "#0f172a", Border: "#cbd5e1", Barrier: "#475569", Attack: "#f97316", Defense: "#0ea5e9"},
	domain.ThemeDark:  {Page: "#0f172a", Panel: "#1e293b", Text: "#e2e8f0", Border: "#334155", Barrier: "#94a3b8", Attack: "#fb923c", Defense: "#38bdf8"},
}

func paletteFor(t domain.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[domain.ThemeLight]
}

var calloutGlyphs = map[domain.CalloutKind]struct{ Glyph, Color string }{
	domain.CalloutDanger:    {"!", "#dc2626"},
	domain.CalloutWatch:     {"◉", "#eab308"},
	domain.CalloutObjective: {"★", "#16a34a"},
}
