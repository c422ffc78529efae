package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
var sparklineBlockRunes = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline draws the most recent width points of data, scaled from
// zero to the window's maximum. The line takes the color of the last point
// relative to the maximum: full is green, anything lower is yellow, zero is red.
func RenderSparkline(data []int, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	maxVal := 0
	for _, v := range data {
		maxVal = max(maxVal, v)
	}

	var sb strings.Builder
	levels := len(sparklineBlockRunes)
	for _, v := range data {
		level := 0
		if maxVal > 0 && v > 0 {
			level = min(levels-1, v*(levels-1)/maxVal)
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}

	last := data[len(data)-1]
	color := ColorWarning
	switch {
	case last == 0:
		color = ColorError
	case last == maxVal:
		color = ColorSuccess
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
