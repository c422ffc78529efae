package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestColorConstants(t *testing.T) {
	colors := []lipgloss.Color{
		ColorNeonPink, ColorNeonCyan, ColorNeonPurple, ColorNeonGreen, ColorGlassBorder,
		ColorSuccess, ColorError, ColorWarning, ColorInfo,
		ColorPrimary, ColorSecondary, ColorMuted,
	}

	for _, color := range colors {
		s := string(color)
		assert.Len(t, s, 7, "color should be #RRGGBB: %s", s)
		assert.Equal(t, byte('#'), s[0], "color should start with #: %s", s)
	}
}

func TestApplyColorMode(t *testing.T) {
	prev := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	tests := []struct {
		mode        string
		tty         bool
		wantEnabled bool
		wantProfile termenv.Profile
	}{
		{"never", true, false, termenv.Ascii},
		{"always", false, true, termenv.TrueColor},
		{"auto", false, false, termenv.Ascii},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.wantEnabled, ApplyColorMode(tt.mode, tt.tty))
			assert.Equal(t, tt.wantProfile, lipgloss.ColorProfile())
		})
	}

	lipgloss.SetColorProfile(termenv.ANSI256)
	assert.True(t, ApplyColorMode("auto", true))
	assert.Equal(t, termenv.ANSI256, lipgloss.ColorProfile(), "auto on a TTY keeps the detected profile")
}
