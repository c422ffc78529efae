package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/rileyhilliard/raytop/internal/monitor"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/rileyhilliard/raytop/internal/ui"
	"github.com/spf13/cobra"
)

// NodesFlags holds flags for the nodes command.
type NodesFlags struct {
	View ViewFlags
	Page int
	JSON bool
}

// NodesReport is one derived snapshot, as printed by 'raytop nodes'.
type NodesReport struct {
	Address   string            `json:"address"`
	Msg       string            `json:"msg"`
	Total     int               `json:"total"`
	Matched   int               `json:"matched"`
	Alive     int               `json:"alive"`
	Page      int               `json:"page"`
	PageCount int               `json:"pageCount"`
	PageSize  int               `json:"pageSize"`
	Sort      string            `json:"sort,omitempty"`
	Desc      bool              `json:"desc"`
	Filters   map[string]string `json:"filters,omitempty"`
	Nodes     []nodes.ViewNode  `json:"nodes"`
}

// nodesCommand fetches the node list once and prints the requested page.
func nodesCommand(cmd *cobra.Command, flags *NodesFlags) error {
	if flags.JSON {
		machineMode = true
	}

	cfg, err := loadConfig(cmd, &flags.View)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ui.ApplyColorMode(cfg.Output.Color, writerIsTerminal(out))

	log := logger.Default()
	client, release, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	opts := viewModelOptions(cfg)
	if flags.Page > 0 {
		opts = append(opts, nodes.WithPage(cfg.Page().Set(nodes.PageNoKey, flags.Page)))
	}
	opts = append(opts, nodes.WithLogger(log))

	st, err := FetchSnapshot(commandContext(cmd), client, opts...)
	if err != nil {
		return err
	}

	report := newNodesReport(st, displayAddress(cfg))
	if flags.JSON {
		return WriteJSONSuccess(out, report)
	}
	return writeNodesTable(out, report, st, time.Now())
}

// newNodesReport slices the current page out of st.
func newNodesReport(st nodes.State, address string) NodesReport {
	total := len(st.NodeList)
	start, end := st.Page.Bounds(total)

	r := NodesReport{
		Address:   address,
		Msg:       st.Msg,
		Total:     len(st.OriginalNodes),
		Matched:   total,
		Page:      st.Page.Current(total),
		PageCount: st.Page.PageCount(total),
		PageSize:  st.Page.PageSize,
		Sort:      string(st.SorterKey),
		Desc:      st.OrderDesc,
		Nodes:     append([]nodes.ViewNode{}, st.NodeList[start:end]...),
	}
	for _, raw := range st.OriginalNodes {
		if nodes.ToView(raw).IsAlive() {
			r.Alive++
		}
	}
	if st.Filters.Len() > 0 {
		r.Filters = map[string]string{}
		for _, e := range st.Filters.Entries() {
			r.Filters[e.Key.String()] = e.Val
		}
	}
	return r
}

// writeNodesTable prints the page as a plain table with a summary line.
func writeNodesTable(w io.Writer, r NodesReport, st nodes.State, now time.Time) error {
	if len(r.Nodes) == 0 {
		msg := "The cluster reported no nodes."
		if r.Total > 0 {
			msg = "No nodes match the current filters."
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	rows := make([][]string, len(r.Nodes))
	for i, n := range r.Nodes {
		rows[i] = monitor.NodeFields(n, now)
	}

	var b strings.Builder
	b.WriteString(ui.RenderSimpleTable(monitor.FieldColumns, rows))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "page %d/%d | %d of %d nodes match | %d alive",
		r.Page, r.PageCount, r.Matched, r.Total, r.Alive)
	if st.Filters.Len() > 0 {
		fmt.Fprintf(&b, " | filters: %s", st.Filters)
	}
	if st.SorterKey != nodes.SortNone {
		fmt.Fprintf(&b, " | sort: %s", st.SorterKey)
		if st.OrderDesc {
			b.WriteString(" desc")
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// writerIsTerminal reports whether w is a terminal file.
func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
