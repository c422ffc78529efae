package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	plainColors(t)
	columns := []TableColumn{
		{Title: "Host", Width: 20},
		{Title: "State", Width: 10},
	}

	tbl := NewTable(columns, 5)
	tbl.SetRows([]table.Row{{"head", "ALIVE"}, {"worker-1", "DEAD"}})

	view := tbl.View()
	assert.Contains(t, view, "Host")
	assert.Contains(t, view, "State")
	assert.Contains(t, view, "head")
	assert.Contains(t, view, "worker-1")
	assert.True(t, tbl.Focused())
}

func TestRenderSimpleTable(t *testing.T) {
	plainColors(t)
	columns := []TableColumn{
		{Title: "HOSTNAME"},
		{Title: "STATE", Width: 8},
	}
	rows := [][]string{
		{"head-node", "ALIVE"},
		{"worker-1", "DEAD"},
	}

	out := RenderSimpleTable(columns, rows)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 4, "header, separator and two rows")
	assert.Contains(t, lines[0], "HOSTNAME")
	assert.Contains(t, lines[0], "STATE")
	assert.Contains(t, out, "head-node")
	assert.Contains(t, out, "worker-1")

	headIdx := strings.Index(out, "head-node")
	workerIdx := strings.Index(out, "worker-1")
	assert.Less(t, headIdx, workerIdx, "rows keep their order")
}

func TestRenderSimpleTable_Empty(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "X"}}, nil))
}

func TestRenderHeader(t *testing.T) {
	plainColors(t)

	out := RenderHeader(HeaderInfo{Version: "v1.2.3", Tagline: "cluster nodes", Address: "http://head:8265"})
	assert.True(t, strings.HasPrefix(out, "raytop v1.2.3\n"))
	assert.Contains(t, out, "cluster nodes\n")
	assert.Contains(t, out, "http://head:8265\n")
	assert.Contains(t, out, strings.Repeat("━", HeaderWidth))

	bare := RenderHeader(HeaderInfo{})
	assert.True(t, strings.HasPrefix(bare, "raytop\n"))
}
