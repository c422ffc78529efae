package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Neon palette for titles and accents.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00E5FF"
	ColorNeonPurple  lipgloss.Color = "#B026FF"
	ColorNeonGreen   lipgloss.Color = "#39FF14"
	ColorGlassBorder lipgloss.Color = "#3A3F58"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "#3DDC84" // alive
	ColorError   lipgloss.Color = "#FF5370" // dead, failures
	ColorWarning lipgloss.Color = "#FFCB6B" // pending, stale data
	ColorInfo    lipgloss.Color = "#82AAFF"
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "#E6E6F0"
	ColorSecondary lipgloss.Color = "#A6ACCD"
	ColorMuted     lipgloss.Color = "#676E95"
)

// GradientColors cycles through the spinner animation.
var GradientColors = []lipgloss.Color{ColorNeonPink, ColorNeonPurple, ColorNeonCyan, ColorNeonGreen}

// ApplyColorMode sets the global lipgloss color profile from an output.color
// setting ("auto", "always", "never"). In auto mode, color follows isTTY.
// Returns whether color is enabled.
func ApplyColorMode(mode string, isTTY bool) bool {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	case "always":
		lipgloss.SetColorProfile(termenv.TrueColor)
		return true
	}
	if !isTTY {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	return true
}
