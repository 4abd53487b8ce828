package tui

import (
	"github.com/charmbracelet/huh"
)

// currentTheme holds the currently configured theme for TUI components.
// When nil, currentThemeOrDefault() returns the crxsync theme.
var currentTheme *huh.Theme

// SetTheme sets the current theme by name.
// Unknown or empty names fall back to the crxsync theme.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return crxsyncTheme()
	}
	return currentTheme
}

// resetTheme resets the current theme to the default.
func resetTheme() {
	currentTheme = nil
}
