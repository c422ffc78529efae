package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/raytop/internal/nodes"
)

// Detail view styles
var (
	detailContainerStyle = lipgloss.NewStyle().
				Padding(1, 2)

	detailKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Width(22)
)

// renderDetailView renders the expanded single-node view.
func (m Model) renderDetailView() string {
	n, ok := m.SelectedNode()
	if !ok {
		return LabelStyle.Render("No node selected")
	}

	var b strings.Builder
	b.WriteString(renderDetailHeader(n))
	b.WriteString("\n\n")
	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.detailContent(n))
	}
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("↑↓ scroll | esc back | q quit"))

	return detailContainerStyle.Render(b.String())
}

// renderDetailHeader renders the hostname and state prominently.
func renderDetailHeader(n nodes.ViewNode) string {
	host := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render(n.Hostname)

	header := fmt.Sprintf("%s  %s", host, RenderState(n.State))
	if n.Raylet.IsHeadNode {
		header += "  " + HeadBadgeStyle.Render("HEAD")
	}
	return header
}

// updateDetailViewportContent refreshes the viewport with the selected node.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady {
		return
	}
	n, ok := m.SelectedNode()
	if !ok {
		return
	}
	m.detailViewport.SetContent(m.detailContent(n))
}

func (m Model) detailContent(n nodes.ViewNode) string {
	width := max(m.width-6, 40)
	now := m.now()

	var sections []string

	overview := [][2]string{
		{"Node ID", n.Raylet.NodeID},
		{"Hostname", n.Hostname},
		{"IP", n.IP},
		{"State", n.State},
		{"Head node", fmt.Sprintf("%t", n.Raylet.IsHeadNode)},
		{"Started", formatEpochMillis(n.Raylet.StartTime)},
	}
	if n.Raylet.EndTime > 0 {
		overview = append(overview, [2]string{"Ended", formatEpochMillis(n.Raylet.EndTime)})
	}
	overview = append(overview, [2]string{"Uptime", formatUptime(n.Uptime(now))})
	sections = append(sections, renderSection("Node", "", overview, width))

	resources := make([][2]string, 0, len(n.Raylet.Resources))
	for _, name := range sortedKeys(n.Raylet.Resources) {
		v := n.Raylet.Resources[name]
		val := formatCount(v)
		if strings.Contains(strings.ToLower(name), "memory") {
			val = formatBytes(int64(v))
		}
		resources = append(resources, [2]string{name, val})
	}
	sections = append(sections, renderSection("Resources", fmt.Sprintf("%d", len(resources)), resources, width))

	labels := make([][2]string, 0, len(n.Raylet.Labels))
	for _, name := range sortedKeys(n.Raylet.Labels) {
		labels = append(labels, [2]string{name, n.Raylet.Labels[name]})
	}
	sections = append(sections, renderSection("Labels", fmt.Sprintf("%d", len(labels)), labels, width))

	return strings.Join(sections, "\n")
}

// renderSection renders a bordered key/value section.
func renderSection(title, value string, rows [][2]string, width int) string {
	lines := []string{SectionHeader(title, value, width)}
	if len(rows) == 0 {
		lines = append(lines, SectionContentLine(LabelStyle.Render("none reported"), width))
	}
	for _, r := range rows {
		val := r[1]
		if val == "" {
			val = "-"
		}
		lines = append(lines, SectionContentLine(detailKeyStyle.Render(r[0])+ValueStyle.Render(val), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func formatEpochMillis(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format(time.DateTime)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
