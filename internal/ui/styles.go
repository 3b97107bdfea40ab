package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultAccent = "#A78BFA"

// Color palette: default text, one accent for headers and ids, muted gray
// for secondary info. Status is shown with symbols, not color.
var (
	Accent     = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
	Muted      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	Bold       = lipgloss.NewStyle().Bold(true)
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent)).Bold(true)

	accentColor = defaultAccent
)

// ConfigureTheme sets the accent color from the ui.accent setting. "none",
// "off" and "default" disable it; invalid values are ignored.
func ConfigureTheme(accent string) {
	switch strings.ToLower(strings.TrimSpace(accent)) {
	case "":
		return
	case "none", "off", "default":
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}
	color, ok := normalizeAccentColor(accent)
	if !ok {
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = Accent.Bold(true)
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// normalizeAccentColor accepts ANSI codes 0-255 and #RGB or #RRGGBB hex.
func normalizeAccentColor(value string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 255 {
			return "", false
		}
		return strconv.Itoa(n), true
	}
	if !strings.HasPrefix(v, "#") {
		return "", false
	}
	hex := v[1:]
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", false
		}
	}
	switch len(hex) {
	case 6:
		return v, true
	case 3:
		return "#" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}), true
	}
	return "", false
}
