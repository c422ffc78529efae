package monitor

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/raytop/internal/nodes"
)

// ViewMode defines the current screen of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeyToggleRefresh = " "
	KeyFilter        = "/"
	KeyNextField     = "tab"
	KeyClearFilter   = "x"
	KeyCycleSort     = "s"
	KeyToggleOrder   = "o"
	KeyToggleMode    = "m"
	KeyPrevPage      = "left"
	KeyPrevPageH     = "h"
	KeyNextPage      = "right"
	KeyNextPageL     = "l"
	KeyPageSizeUp    = "+"
	KeyPageSizeDown  = "-"
	KeySelectPrev    = "up"
	KeySelectPrevK   = "k"
	KeySelectNext    = "down"
	KeySelectNextJ   = "j"
	KeySelectFirst   = "home"
	KeySelectLast    = "end"
	KeyExpand        = "enter"
	KeyCollapse      = "esc"
	KeyToggleHelp    = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.editing {
		return m.handleFilterKey(msg)
	}

	key := msg.String()
	m.notice = ""

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	// Detail view only knows how to leave; everything else scrolls the viewport.
	if m.viewMode == ViewDetail {
		switch key {
		case KeyCollapse:
			m.viewMode = ViewList
			return true, nil
		case KeyQuit, KeyQuitAlt:
			m.quitting = true
			return true, tea.Quit
		}
		return false, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		if !m.src.Refresh() {
			m.notice = "Auto-refresh is paused. Press space to resume."
		}
		return true, nil

	case KeyToggleRefresh:
		m.src.OnSwitchChange(!m.state.IsRefreshing)
		m.sync()
		return true, nil

	case KeyFilter:
		return true, m.startFilter()

	case KeyNextField:
		m.filterKey = m.filterKey.Next()
		return true, nil

	case KeyClearFilter:
		if _, ok := m.state.Filters.Get(m.filterKey); ok {
			m.src.ClearFilter(m.filterKey)
			m.firstPage()
		}
		m.sync()
		return true, nil

	case KeyCycleSort:
		m.src.SetSortKey(m.state.SorterKey.Next())
		m.sync()
		return true, nil

	case KeyToggleOrder:
		m.src.SetOrderDesc(!m.state.OrderDesc)
		m.sync()
		return true, nil

	case KeyToggleMode:
		m.src.SetMode(m.state.Mode.Toggle())
		m.sync()
		return true, nil

	case KeyPrevPage, KeyPrevPageH:
		m.gotoPage(m.currentPage() - 1)
		return true, nil

	case KeyNextPage, KeyNextPageL:
		m.gotoPage(m.currentPage() + 1)
		return true, nil

	case KeyPageSizeUp:
		m.stepPageSize(1)
		return true, nil

	case KeyPageSizeDown:
		m.stepPageSize(-1)
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
			m.table.SetCursor(m.selected)
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.Page())-1 {
			m.selected++
			m.table.SetCursor(m.selected)
		}
		return true, nil

	case KeySelectFirst:
		m.selected = 0
		m.table.SetCursor(m.selected)
		return true, nil

	case KeySelectLast:
		m.selected = max(len(m.Page())-1, 0)
		m.table.SetCursor(m.selected)
		return true, nil

	case KeyExpand:
		if _, ok := m.SelectedNode(); ok {
			m.viewMode = ViewDetail
			m.updateDetailViewportContent()
			m.detailViewport.GotoTop()
		}
		return true, nil

	case KeyCollapse:
		return true, nil
	}

	return false, nil
}

// handleFilterKey drives the filter input while it has focus.
func (m *Model) handleFilterKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyExpand:
		m.applyFilter(m.input.Value())
		m.stopFilter()
		return true, nil

	case KeyCollapse:
		m.stopFilter()
		return true, nil

	case KeyNextField:
		m.filterKey = m.filterKey.Next()
		m.loadFilterInput()
		return true, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return true, cmd
}

func (m *Model) startFilter() tea.Cmd {
	m.editing = true
	m.loadFilterInput()
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) stopFilter() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

// loadFilterInput shows the active field's current filter value.
func (m *Model) loadFilterInput() {
	val, _ := m.state.Filters.Get(m.filterKey)
	m.input.SetValue(val)
	m.input.CursorEnd()
}

// applyFilter sets the active field's filter. An empty value clears it.
func (m *Model) applyFilter(val string) {
	if val == "" {
		m.src.ClearFilter(m.filterKey)
	} else {
		m.src.ChangeFilter(m.filterKey, val)
	}
	m.firstPage()
	m.selected = 0
	m.sync()
}

// currentPage returns the page on screen, which may differ from the stored
// page number when the list shrank.
func (m Model) currentPage() int {
	return m.state.Page.Current(len(m.state.NodeList))
}

// gotoPage moves to page n, clamped to the available pages.
func (m *Model) gotoPage(n int) {
	n = min(max(n, 1), m.state.Page.PageCount(len(m.state.NodeList)))
	if n == m.currentPage() && n == m.state.Page.PageNo {
		return
	}
	m.src.SetPage(nodes.PageNoKey, n)
	m.selected = 0
	m.sync()
}

func (m *Model) firstPage() {
	if m.state.Page.PageNo != nodes.DefaultPageNo {
		m.src.SetPage(nodes.PageNoKey, nodes.DefaultPageNo)
	}
}

// stepPageSize moves to the next larger (dir > 0) or smaller page size in
// PageSizes, keeping the first node on screen visible.
func (m *Model) stepPageSize(dir int) {
	cur := m.state.Page.PageSize
	next := 0
	if dir > 0 {
		for _, s := range PageSizes {
			if s > cur {
				next = s
				break
			}
		}
	} else {
		for i := len(PageSizes) - 1; i >= 0; i-- {
			if PageSizes[i] < cur {
				next = PageSizes[i]
				break
			}
		}
	}
	if next == 0 {
		return
	}

	start, _ := m.state.Page.Bounds(len(m.state.NodeList))
	m.src.SetPage(nodes.PageSizeKey, next)
	m.src.SetPage(nodes.PageNoKey, start/next+1)
	m.selected = 0
	m.sync()
}
