package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/rileyhilliard/raytop/internal/ui"
)

// Dashboard color palette, built on the shared ui palette.
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = ui.ColorGlassBorder

	ColorAlive   = ui.ColorSuccess
	ColorPending = ui.ColorWarning
	ColorDead    = ui.ColorError

	ColorTextPrimary   = ui.ColorPrimary
	ColorTextSecondary = ui.ColorSecondary
	ColorTextMuted     = ui.ColorMuted

	ColorAccent    = ui.ColorNeonPink
	ColorAccentDim = ui.ColorNeonPurple
	ColorHighlight = ui.ColorNeonCyan
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	SubheaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDead).
			Padding(0, 1)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorPending).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	HostNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	HeadBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	StatusAliveStyle = lipgloss.NewStyle().
				Foreground(ColorAlive)

	StatusPendingStyle = lipgloss.NewStyle().
				Foreground(ColorPending)

	StatusDeadStyle = lipgloss.NewStyle().
			Foreground(ColorDead)
)

// Node state glyphs.
const (
	StatusAlive   = "◉"
	StatusDead    = "◌"
	StatusPending = "◔"
)

// StateIndicator returns the glyph and style for a raylet state. ALIVE and
// DEAD have their own look; anything else is treated as in transition.
func StateIndicator(state string) (string, lipgloss.Style) {
	switch state {
	case nodes.StateAlive:
		return StatusAlive, StatusAliveStyle
	case "DEAD":
		return StatusDead, StatusDeadStyle
	default:
		return StatusPending, StatusPendingStyle
	}
}

// RenderState renders "◉ ALIVE" style state text.
func RenderState(state string) string {
	glyph, style := StateIndicator(state)
	if state == "" {
		state = "UNKNOWN"
	}
	return style.Render(glyph + " " + state)
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	middle := strings.Repeat("─", width-2)
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	padding := max(width-4-lipgloss.Width(content), 0)

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
