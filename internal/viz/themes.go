package viz

import (
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/idealgas/internal/particle"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Warning: lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	// Default theme
	CurrentTheme = ThemeMinimal

	// All available themes
	Themes = []Theme{
		ThemeMinimal,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

// SetTheme changes the theme new live views start with.
func SetTheme(name string) error {
	for _, t := range Themes {
		if t.Name == name {
			CurrentTheme = t
			return nil
		}
	}
	return fmt.Errorf("unknown theme: %s (available: %v)", name, ThemeNames())
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

var namedColors = map[particle.Tag]string{
	"green":   "#00cc44",
	"orange":  "#ff8800",
	"cyan":    "#00e5ff",
	"red":     "#ff3333",
	"blue":    "#3377ff",
	"magenta": "#ff33cc",
	"yellow":  "#ffdd00",
	"white":   "#ffffff",
	"purple":  "#9955ff",
}

var fallbackColors = []string{"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#5f27cd", "#ff9ff3"}

// TagColor maps a tag to a hex color. Color names map to themselves; any
// other tag gets a stable pick from a fixed palette.
func TagColor(tag particle.Tag) lipgloss.Color {
	if c, ok := namedColors[tag]; ok {
		return lipgloss.Color(c)
	}
	h := fnv.New32a()
	h.Write([]byte(tag))
	return lipgloss.Color(fallbackColors[h.Sum32()%uint32(len(fallbackColors))])
}
