package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/rileyhilliard/raytop/internal/ui"
)

// sparklineWidth is how many fetches the header sparkline shows.
const sparklineWidth = 20

var tableColumns = []ui.TableColumn{
	{Title: "", Width: 2},
	{Title: "Hostname", Width: 22},
	{Title: "IP", Width: 15},
	{Title: "Node ID", Width: 14},
	{Title: "State", Width: 9},
	{Title: "CPU", Width: 5},
	{Title: "GPU", Width: 5},
	{Title: "Memory", Width: 9},
	{Title: "Uptime", Width: 8},
}

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderBody())

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line, the view parameter line and the
// status message.
func (m Model) renderHeader() string {
	st := m.state

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("raytop")

	stats := []string{
		fmt.Sprintf("%d/%d nodes", len(st.NodeList), len(st.OriginalNodes)),
		fmt.Sprintf("%d alive", m.AliveCount()),
	}
	if spark := ui.RenderSparkline(m.history.Total(sparklineWidth), sparklineWidth); spark != "" {
		stats[0] += " " + spark
	}
	if spark := ui.RenderSparkline(m.history.Alive(sparklineWidth), sparklineWidth); spark != "" {
		stats[1] += " " + spark
	}
	stats = append(stats, m.refreshLabel(), m.updatedLabel())
	if m.address != "" {
		stats = append(stats, m.address)
	}
	line1 := title + LabelStyle.Render(" | "+strings.Join(stats, " | "))

	line2 := strings.Join([]string{
		"filters: " + filterLabel(st.Filters, m.filterKey),
		"sort: " + sortLabel(st.SorterKey, st.OrderDesc),
		fmt.Sprintf("page %d/%d (%d per page)",
			m.currentPage(), st.Page.PageCount(len(st.NodeList)), st.Page.PageSize),
		"view: " + string(st.Mode),
	}, " | ")

	msg := st.Msg
	if st.UpdatedAt.IsZero() && st.IsRefreshing {
		msg = m.spinner.View() + " " + msg
	}

	return HeaderStyle.Render(line1) + "\n" +
		SubheaderStyle.Render(line2) + "\n" +
		SubheaderStyle.Render(msg)
}

func (m Model) refreshLabel() string {
	if m.state.IsRefreshing {
		return fmt.Sprintf("every %s", m.src.Interval())
	}
	return StatusPendingStyle.Render(ui.SymbolPaused + " paused")
}

func (m Model) updatedLabel() string {
	if m.state.UpdatedAt.IsZero() {
		return "not fetched yet"
	}
	switch secs := m.SecondsSinceUpdate(); secs {
	case 0:
		return "updated just now"
	default:
		return fmt.Sprintf("updated %ds ago", secs)
	}
}

// filterLabel lists the active filters and marks the field tab/x act on.
func filterLabel(f nodes.Filters, active nodes.FilterKey) string {
	parts := make([]string, 0, len(nodes.FilterKeys()))
	for _, k := range nodes.FilterKeys() {
		val, ok := f.Get(k)
		label := k.String()
		if ok {
			label += "=" + val
		}
		if k == active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func sortLabel(key nodes.SortKey, desc bool) string {
	if key == nodes.SortNone {
		return key.String()
	}
	if desc {
		return key.String() + " ↓"
	}
	return key.String() + " ↑"
}

// renderBody renders the current page in the active display mode.
func (m Model) renderBody() string {
	page := m.Page()
	if len(page) == 0 {
		return LabelStyle.Padding(0, 1).Render(m.emptyText())
	}
	if m.state.Mode == nodes.ModeCard {
		return m.renderCards(page)
	}
	return m.table.View()
}

func (m Model) emptyText() string {
	switch {
	case len(m.state.OriginalNodes) > 0:
		return "No nodes match the current filters. Press x to clear the highlighted one."
	case m.state.UpdatedAt.IsZero():
		return "Waiting for the first node list..."
	default:
		return "The cluster reported no nodes."
	}
}

// renderFooter renders the filter input, the last error, or the key hints.
func (m Model) renderFooter() string {
	if m.editing {
		return FooterStyle.Render(fmt.Sprintf("filter %s: %s  (enter apply, esc cancel, tab next field)",
			m.filterKey, m.input.View()))
	}
	if m.lastErr != nil {
		retry := fmt.Sprintf("retrying every %s", m.src.Interval())
		if !m.state.IsRefreshing {
			retry = "auto-refresh paused, press space to resume"
		}
		return ErrorStyle.Render(fmt.Sprintf("%s %s (%s)",
			ui.SymbolFail, errorSummary(m.lastErr), retry))
	}
	if m.notice != "" {
		return NoticeStyle.Render(m.notice)
	}

	hints := []string{
		"q quit",
		"r refresh",
		"space pause",
		"/ filter",
		"s sort",
		"m mode",
		"←→ page",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// errorSummary returns a one-line form of err for the footer.
func errorSummary(err error) string {
	for _, line := range strings.Split(errors.Summarize(err), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ui.SymbolFail))
		if line != "" {
			return line
		}
	}
	return "fetch failed"
}

func tableRows(page []nodes.ViewNode, now time.Time) []table.Row {
	rows := make([]table.Row, len(page))
	for i, n := range page {
		glyph, _ := StateIndicator(n.State)
		rows[i] = append(table.Row{glyph}, NodeFields(n, now)...)
	}
	return rows
}

// FieldColumns are the headers of NodeFields.
var FieldColumns = tableColumns[1:]

// NodeFields renders a node's table cells, without the status glyph.
func NodeFields(n nodes.ViewNode, now time.Time) []string {
	return []string{
		displayHostname(n),
		n.IP,
		n.Raylet.NodeID,
		n.State,
		formatResource(n, "CPU"),
		formatResource(n, "GPU"),
		formatMemory(n),
		formatUptime(n.Uptime(now)),
	}
}

// displayHostname prefixes head nodes with a star.
func displayHostname(n nodes.ViewNode) string {
	if n.Raylet.IsHeadNode {
		return ui.SymbolHead + " " + n.Hostname
	}
	return n.Hostname
}

// formatResource renders a resource total; "-" when the node has none.
func formatResource(n nodes.ViewNode, name string) string {
	v, ok := n.Raylet.Resources[name]
	if !ok {
		return "-"
	}
	return formatCount(v)
}

func formatMemory(n nodes.ViewNode) string {
	v, ok := n.Raylet.Resources["memory"]
	if !ok {
		return "-"
	}
	return formatBytes(int64(v))
}

// formatCount drops the fraction from whole numbers.
func formatCount(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

// formatUptime renders the two most significant units of d.
func formatUptime(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Truncate(time.Second)
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	mins := int(d/time.Minute) % 60
	secs := int(d/time.Second) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%dm%ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}
