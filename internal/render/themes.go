package render

import (
	"os"
	"slices"
)

// Glamour style names used by the TUI themes
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// StyleInfo describes a builtin glamour style for `pulse config`
type StyleInfo struct {
	Name        string
	Description string
}

var builtinStyles = []StyleInfo{
	{Name: ThemeDark, Description: "Dark background (default)"},
	{Name: ThemeLight, Description: "Light background"},
	{Name: "dracula", Description: "Dracula palette"},
	{Name: "tokyo-night", Description: "Tokyo Night palette"},
	{Name: "pink", Description: "Pink accents"},
	{Name: "notty", Description: "No colors, for pipes and dumb terminals"},
	{Name: "ascii", Description: "No colors and ASCII-only glyphs"},
}

// BuiltinStyles returns the glamour styles that need no style file
func BuiltinStyles() []StyleInfo {
	return slices.Clone(builtinStyles)
}

// StyleNames returns the builtin style names in display order
func StyleNames() []string {
	names := make([]string, len(builtinStyles))
	for i, s := range builtinStyles {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether style names a builtin glamour style.
// Anything else is treated as a path to a JSON style file.
func IsBuiltinStyle(style string) bool {
	return slices.ContainsFunc(builtinStyles, func(s StyleInfo) bool {
		return s.Name == style
	})
}

// ResolveStyle returns style when it is builtin or an existing style file,
// and fallback otherwise.
func ResolveStyle(style, fallback string) string {
	if style == "" {
		return fallback
	}
	if IsBuiltinStyle(style) {
		return style
	}
	if info, err := os.Stat(style); err == nil && !info.IsDir() {
		return style
	}
	return fallback
}
