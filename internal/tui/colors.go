package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func lightBlue() lipgloss.Color {
	return lipgloss.Color("#87CEEB")
}

func darkBlue() lipgloss.Color {
	return lipgloss.Color("#4682B4")
}

// jarColor uses the jar's own hex colour when it has one.
func jarColor(hex string) lipgloss.Color {
	hex = strings.TrimSpace(hex)
	if len(hex) == 7 && strings.HasPrefix(hex, "#") {
		return lipgloss.Color(hex)
	}
	return darkBlue()
}
