package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/raytop/internal/nodes"
	"github.com/rileyhilliard/raytop/internal/ui"
)

// Source is the view-model the dashboard renders and steers.
// *nodes.ViewModel implements it.
type Source interface {
	Snapshot() nodes.State
	Interval() time.Duration
	Refresh() bool
	OnSwitchChange(checked bool)
	ChangeFilter(key nodes.FilterKey, val string)
	ClearFilter(key nodes.FilterKey)
	SetPage(key nodes.PageKey, val int)
	SetSortKey(key nodes.SortKey)
	SetOrderDesc(desc bool)
	SetMode(mode nodes.DisplayMode)
}

// Layout reserved around the node list.
const (
	headerHeight = 4
	footerHeight = 2
)

// clockInterval is how often the "updated Ns ago" label is redrawn.
const clockInterval = time.Second

// PageSizes are the steps +/- move through.
var PageSizes = []int{5, 10, 20, 50, 100}

// Model is the Bubble Tea model for the node list dashboard.
type Model struct {
	src     Source
	address string
	state   nodes.State
	history *History

	table          table.Model
	input          textinput.Model
	spinner        spinner.Model
	detailViewport viewport.Model
	viewportReady  bool

	width    int
	height   int
	selected int // index into the current page
	viewMode ViewMode
	showHelp bool
	quitting bool

	// Filter editing
	filterKey nodes.FilterKey
	editing   bool

	// Fetch failures
	lastErr  error
	errAt    time.Time
	retryGen int

	notice string
	now    func() time.Time
}

// changedMsg signals the view-model changed and needs a fresh snapshot.
type changedMsg struct{}

// fetchErrMsg carries a failed fetch.
type fetchErrMsg struct {
	err error
}

// retryMsg asks for a refresh after a failure. Stale generations are ignored.
type retryMsg struct {
	gen int
}

// tickMsg redraws time-relative labels.
type tickMsg time.Time

// NewModel creates a dashboard over src. address is shown in the header.
func NewModel(src Source, address string) Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 128

	m := Model{
		src:     src,
		address: address,
		history: NewHistory(DefaultHistorySize),
		table:   ui.NewTable(tableColumns, nodes.DefaultPageSize+1),
		input:   input,
		spinner: ui.NewTUISpinner(),
		now:     time.Now,
	}
	m.sync()
	return m
}

// Init starts the spinner and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.viewMode == ViewDetail {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case changedMsg:
		m.sync()
		return m, nil

	case fetchErrMsg:
		m.lastErr = msg.err
		m.errAt = m.now()
		m.retryGen++
		return m, m.retryCmd()

	case retryMsg:
		if msg.gen == m.retryGen && m.lastErr != nil {
			m.src.Refresh()
		}
		return m, nil

	case tickMsg:
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetailView()
	}
	return m.renderDashboard()
}

// State returns the last snapshot read from the source.
func (m Model) State() nodes.State {
	return m.state
}

// Err returns the most recent fetch error, cleared by the next successful fetch.
func (m Model) Err() error {
	return m.lastErr
}

// Page returns the nodes on the current page.
func (m Model) Page() []nodes.ViewNode {
	start, end := m.state.Page.Bounds(len(m.state.NodeList))
	return m.state.NodeList[start:end]
}

// SelectedNode returns the node under the cursor.
func (m Model) SelectedNode() (nodes.ViewNode, bool) {
	page := m.Page()
	if m.selected < 0 || m.selected >= len(page) {
		return nodes.ViewNode{}, false
	}
	return page[m.selected], true
}

// AliveCount returns how many nodes in the last fetch are ALIVE, ignoring filters.
func (m Model) AliveCount() int {
	n := 0
	for _, raw := range m.state.OriginalNodes {
		if raw.Raylet.State == nodes.StateAlive {
			n++
		}
	}
	return n
}

// SecondsSinceUpdate returns how many seconds have passed since the last fetch.
func (m Model) SecondsSinceUpdate() int {
	if m.state.UpdatedAt.IsZero() {
		return 0
	}
	return max(int(m.now().Sub(m.state.UpdatedAt).Seconds()), 0)
}

// sync re-reads the source and brings derived widgets in line with it.
func (m *Model) sync() {
	m.state = m.src.Snapshot()
	m.history.Record(m.state.UpdatedAt, m.AliveCount(), len(m.state.OriginalNodes))

	if m.lastErr != nil && m.state.UpdatedAt.After(m.errAt) {
		m.lastErr = nil
	}

	page := m.Page()
	m.selected = min(m.selected, len(page)-1)
	m.selected = max(m.selected, 0)

	m.table.SetRows(tableRows(page, m.now()))
	m.table.SetCursor(m.selected)

	if m.viewMode == ViewDetail {
		if _, ok := m.SelectedNode(); !ok {
			m.viewMode = ViewList
			return
		}
		m.updateDetailViewportContent()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	bodyHeight := max(height-headerHeight-footerHeight, 3)
	m.table.SetWidth(width)
	m.table.SetHeight(bodyHeight)

	if !m.viewportReady {
		m.detailViewport = viewport.New(width, bodyHeight)
		m.detailViewport.YPosition = headerHeight
		m.viewportReady = true
	} else {
		m.detailViewport.Width = width
		m.detailViewport.Height = bodyHeight
	}

	if m.viewMode == ViewDetail {
		m.updateDetailViewportContent()
	}
}

// tickCmd returns a command that redraws after clockInterval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// retryCmd schedules a refresh one poll interval after a failure.
func (m Model) retryCmd() tea.Cmd {
	gen := m.retryGen
	return tea.Tick(m.src.Interval(), func(time.Time) tea.Msg {
		return retryMsg{gen: gen}
	})
}
