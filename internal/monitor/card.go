package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/raytop/internal/nodes"
)

// Card layout constants
const (
	cardWidth    = 34
	cardChrome   = 5 // border, padding and right margin
	cardMinWidth = 16
)

// renderCards renders the page as a grid of node cards.
func (m Model) renderCards(page []nodes.ViewNode) string {
	width := m.calculateCardWidth()
	now := m.now()

	cards := make([]string, len(page))
	for i, n := range page {
		cards[i] = renderCard(n, width, i == m.selected, now)
	}
	return m.layoutCards(cards, width)
}

// calculateCardWidth shrinks cards to fit narrow terminals.
func (m Model) calculateCardWidth() int {
	if m.width == 0 || m.width >= cardWidth+cardChrome {
		return cardWidth
	}
	return max(m.width-cardChrome, cardMinWidth)
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}

	perRow := 1
	if m.width > 0 {
		perRow = max(m.width/(width+cardChrome), 1)
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard renders a single node card: state and hostname, address,
// node id, resources and uptime.
func renderCard(n nodes.ViewNode, width int, selected bool, now time.Time) string {
	style := CardStyle.Width(width)
	if selected {
		style = CardSelectedStyle.Width(width)
	}
	inner := width - 2

	glyph, glyphStyle := StateIndicator(n.State)
	title := glyphStyle.Render(glyph) + " " + HostNameStyle.Render(truncateWithEllipsis(n.Hostname, inner-8))
	if n.Raylet.IsHeadNode {
		title += " " + HeadBadgeStyle.Render("HEAD")
	}

	lines := []string{
		title,
		cardField("ip", n.IP, inner),
		cardField("id", n.Raylet.NodeID, inner),
		cardField("state", n.State, inner),
		cardField("cpu", formatResource(n, "CPU")+"  gpu "+formatResource(n, "GPU"), inner),
		cardField("mem", formatMemory(n), inner),
		cardField("up", formatUptime(n.Uptime(now)), inner),
	}
	return style.Render(strings.Join(lines, "\n"))
}

// cardField renders "label value" with the value truncated to fit.
func cardField(label, value string, width int) string {
	const labelWidth = 6
	if value == "" {
		value = "-"
	}
	return LabelStyle.Width(labelWidth).Render(label) +
		ValueStyle.Render(truncateWithEllipsis(value, width-labelWidth))
}

// truncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
func truncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
