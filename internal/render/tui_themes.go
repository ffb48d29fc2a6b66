// Package render provides TUI theme definitions for the terminal interface.
package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string
	// MarkdownStyle is the glamour style that matches the palette
	MarkdownStyle string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// DarkTheme is the default, a night palette with violet accents
	DarkTheme = TUITheme{
		Name:          "dark",
		Description:   "Dark - night palette with violet accents",
		MarkdownStyle: ThemeDark,

		Background: lipgloss.Color("#131314"),
		Surface:    lipgloss.Color("#1e1f20"),
		Border:     lipgloss.Color("#444746"),

		Primary:   lipgloss.Color("#a8c7fa"),
		Secondary: lipgloss.Color("#8ab4f8"),
		Accent:    lipgloss.Color("#c58af9"),
		Success:   lipgloss.Color("#81c995"),
		Warning:   lipgloss.Color("#fdd663"),
		Error:     lipgloss.Color("#f28b82"),

		Text:     lipgloss.Color("#e3e3e3"),
		TextDim:  lipgloss.Color("#9aa0a6"),
		TextMute: lipgloss.Color("#5f6368"),
	}

	// LightTheme suits bright terminals
	LightTheme = TUITheme{
		Name:          "light",
		Description:   "Light - paper palette with blue accents",
		MarkdownStyle: ThemeLight,

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f0f4f9"),
		Border:     lipgloss.Color("#c4c7c5"),

		Primary:   lipgloss.Color("#0b57d0"),
		Secondary: lipgloss.Color("#1a73e8"),
		Accent:    lipgloss.Color("#8430ce"),
		Success:   lipgloss.Color("#146c2e"),
		Warning:   lipgloss.Color("#b06000"),
		Error:     lipgloss.Color("#b3261e"),

		Text:     lipgloss.Color("#1f1f1f"),
		TextDim:  lipgloss.Color("#444746"),
		TextMute: lipgloss.Color("#747775"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = DarkTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	switch name {
	case "dark":
		return DarkTheme, true
	case "light":
		return LightTheme, true
	default:
		return TUITheme{}, false
	}
}

// OppositeTheme returns the name of the theme a toggle switches to
func OppositeTheme(name string) string {
	if name == LightTheme.Name {
		return DarkTheme.Name
	}
	return LightTheme.Name
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{DarkTheme, LightTheme}
}

// TUIThemeNames returns the names accepted by the theme setting
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
