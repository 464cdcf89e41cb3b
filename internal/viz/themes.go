package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the TUI. Ramp runs from empty to
// dense cells.
type Theme struct {
	Name   string
	Ramp   []lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeCosmic = Theme{
		Name:   "cosmic",
		Ramp:   colors("#0b0b2b", "#2a1b5e", "#5a2a8c", "#9a3fa8", "#d65fa6", "#ff9f9f", "#ffe3c4"),
		Accent: lipgloss.Color("#ff00ff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeViridis = Theme{
		Name:   "viridis",
		Ramp:   colors("#440154", "#443983", "#31688e", "#21918c", "#35b779", "#90d743", "#fde725"),
		Accent: lipgloss.Color("#35b779"),
		Muted:  lipgloss.Color("#4a5a6a"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Ramp:   colors("#001100", "#003300", "#005500", "#008800", "#00bb00", "#00ff00", "#88ff88"),
		Accent: lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Ramp:   colors("#111111", "#333333", "#555555", "#888888", "#aaaaaa", "#cccccc", "#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Muted:  lipgloss.Color("#888888"),
	}

	// Default theme
	CurrentTheme = ThemeCosmic

	Themes = []Theme{
		ThemeCosmic,
		ThemeViridis,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

func colors(hex ...string) []lipgloss.Color {
	out := make([]lipgloss.Color, len(hex))
	for i, h := range hex {
		out[i] = lipgloss.Color(h)
	}
	return out
}

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCosmic
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}
