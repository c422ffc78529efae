package nodes

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/raytop/internal/logger"
)

const (
	// DefaultInterval is the delay between a completed fetch and the next one.
	DefaultInterval = 4 * time.Second

	// LoadingMessage is the status message before the first fetch lands.
	LoadingMessage = "Loading the nodes infos..."
)

// Result is one successful node list fetch.
type Result struct {
	Summary []RawNode
	Msg     string
}

// Fetcher retrieves the cluster's node summary.
type Fetcher interface {
	FetchNodes(ctx context.Context) (Result, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (Result, error)

// FetchNodes calls f.
func (f FetcherFunc) FetchNodes(ctx context.Context) (Result, error) {
	return f(ctx)
}

// Timer is the handle of a scheduled callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// State is one read of the view-model: the derived list plus every view
// parameter a renderer needs.
type State struct {
	NodeList      []ViewNode
	Msg           string
	IsRefreshing  bool
	Page          PageState
	OriginalNodes []RawNode
	SorterKey     SortKey
	OrderDesc     bool
	Mode          DisplayMode
	Filters       Filters

	// UpdatedAt is when the last successful fetch landed; zero before the first.
	UpdatedAt time.Time
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithInterval sets the delay between fetches.
func WithInterval(d time.Duration) Option {
	return func(vm *ViewModel) {
		if d > 0 {
			vm.interval = d
		}
	}
}

// WithLogger sets the logger used for poll diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(vm *ViewModel) { vm.log = l }
}

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(vm *ViewModel) { vm.afterFunc = f }
}

// WithOnChange registers a callback invoked after every state change.
// It runs on the goroutine that made the change, outside the view-model's lock.
func WithOnChange(f func()) Option {
	return func(vm *ViewModel) { vm.onChange = f }
}

// WithOnError registers a callback for failed fetches.
func WithOnError(f func(error)) Option {
	return func(vm *ViewModel) { vm.onError = f }
}

// WithPage sets the initial page state.
func WithPage(p PageState) Option {
	return func(vm *ViewModel) { vm.page = p }
}

// WithMode sets the initial display mode.
func WithMode(m DisplayMode) Option {
	return func(vm *ViewModel) { vm.mode = m }
}

// WithSorter sets the initial sort key and direction.
func WithSorter(s Sorter) Option {
	return func(vm *ViewModel) { vm.sorter = s }
}

// WithFilters sets the initial filters.
func WithFilters(f Filters) Option {
	return func(vm *ViewModel) { vm.filters = f }
}

// ViewModel owns the node list poll loop and the user's view parameters.
// All methods are safe for concurrent use.
type ViewModel struct {
	fetcher   Fetcher
	interval  time.Duration
	log       logger.Logger
	afterFunc AfterFunc
	onChange  func()
	onError   func(error)

	mu         sync.Mutex
	raw        []RawNode
	msg        string
	refreshing bool
	updated    time.Time
	mode       DisplayMode
	filters    Filters
	page       PageState
	sorter     Sorter

	ctx     context.Context
	cancel  context.CancelFunc
	mounted bool
	gen     uint64
	timer   Timer
}

// New creates a ViewModel that fetches through f. Polling starts on Mount.
func New(f Fetcher, opts ...Option) *ViewModel {
	vm := &ViewModel{
		fetcher:    f,
		interval:   DefaultInterval,
		log:        logger.Noop(),
		afterFunc:  realAfterFunc,
		raw:        []RawNode{},
		msg:        LoadingMessage,
		refreshing: true,
		mode:       ModeTable,
		page:       DefaultPageState(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Interval returns the delay between fetches.
func (vm *ViewModel) Interval() time.Duration {
	return vm.interval
}

// Mount starts the poll loop with an immediate fetch. Calling Mount on a
// mounted view-model does nothing.
func (vm *ViewModel) Mount(ctx context.Context) {
	vm.mu.Lock()
	if vm.mounted {
		vm.mu.Unlock()
		return
	}
	vm.ctx, vm.cancel = context.WithCancel(ctx)
	vm.mounted = true
	gen := vm.rearmLocked()
	start := vm.refreshing
	vm.mu.Unlock()

	if start {
		go vm.poll(gen)
	}
}

// Unmount stops the poll loop. A fetch in flight is cancelled and its result
// discarded.
func (vm *ViewModel) Unmount() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if !vm.mounted {
		return
	}
	vm.mounted = false
	vm.rearmLocked()
	vm.cancel()
}

// OnSwitchChange turns auto-refresh on or off. Turning it off cancels the
// pending timer; turning it back on fetches immediately and resumes polling.
func (vm *ViewModel) OnSwitchChange(checked bool) {
	vm.mu.Lock()
	if vm.refreshing == checked {
		vm.mu.Unlock()
		return
	}
	vm.refreshing = checked
	gen := vm.rearmLocked()
	start := checked && vm.mounted
	vm.mu.Unlock()

	if start {
		go vm.poll(gen)
	}
	vm.notify()
}

// Refresh restarts the cycle with an immediate fetch. It returns false when
// the view-model is unmounted or auto-refresh is off.
func (vm *ViewModel) Refresh() bool {
	vm.mu.Lock()
	if !vm.mounted || !vm.refreshing {
		vm.mu.Unlock()
		return false
	}
	gen := vm.rearmLocked()
	vm.mu.Unlock()

	go vm.poll(gen)
	return true
}

// ChangeFilter sets the filter for key, replacing any existing value.
func (vm *ViewModel) ChangeFilter(key FilterKey, val string) {
	vm.update(func() { vm.filters = vm.filters.With(key, val) })
}

// ClearFilter removes the filter for key.
func (vm *ViewModel) ClearFilter(key FilterKey) {
	vm.update(func() { vm.filters = vm.filters.Without(key) })
}

// SetPage merges one field into the page state.
func (vm *ViewModel) SetPage(key PageKey, val int) {
	vm.update(func() { vm.page = vm.page.Set(key, val) })
}

// SetSortKey sets the user sort key.
func (vm *ViewModel) SetSortKey(key SortKey) {
	vm.update(func() { vm.sorter.Key = key })
}

// SetOrderDesc sets the user sort direction.
func (vm *ViewModel) SetOrderDesc(desc bool) {
	vm.update(func() { vm.sorter.Desc = desc })
}

// SetMode sets the display mode.
func (vm *ViewModel) SetMode(mode DisplayMode) {
	vm.update(func() { vm.mode = mode })
}

// Snapshot derives the current view. The derived list is rebuilt from the raw
// fetch result and view parameters on every call.
func (vm *ViewModel) Snapshot() State {
	vm.mu.Lock()
	raw := vm.raw
	st := State{
		Msg:          vm.msg,
		IsRefreshing: vm.refreshing,
		Page:         vm.page,
		SorterKey:    vm.sorter.Key,
		OrderDesc:    vm.sorter.Desc,
		Mode:         vm.mode,
		Filters:      vm.filters,
		UpdatedAt:    vm.updated,
	}
	sorter := vm.sorter
	vm.mu.Unlock()

	st.OriginalNodes = raw
	st.NodeList = Derive(raw, sorter, st.Filters)
	return st
}

func (vm *ViewModel) update(mutate func()) {
	vm.mu.Lock()
	mutate()
	vm.mu.Unlock()
	vm.notify()
}

func (vm *ViewModel) notify() {
	if vm.onChange != nil {
		vm.onChange()
	}
}

// rearmLocked starts a new generation and stops the pending timer. Callbacks
// carrying an older generation become no-ops.
func (vm *ViewModel) rearmLocked() uint64 {
	vm.gen++
	if vm.timer != nil {
		vm.timer.Stop()
		vm.timer = nil
	}
	return vm.gen
}

func (vm *ViewModel) currentLocked(gen uint64) bool {
	return vm.mounted && vm.refreshing && gen == vm.gen
}

// poll runs one fetch for generation gen and, on success, arms the timer for
// the next one.
func (vm *ViewModel) poll(gen uint64) {
	vm.mu.Lock()
	if !vm.currentLocked(gen) {
		vm.mu.Unlock()
		return
	}
	ctx := vm.ctx
	vm.mu.Unlock()

	vm.log.Debug("fetching node list (gen %d)", gen)
	res, err := vm.fetcher.FetchNodes(ctx)

	vm.mu.Lock()
	if !vm.currentLocked(gen) {
		vm.mu.Unlock()
		vm.log.Debug("dropping result of superseded fetch (gen %d)", gen)
		return
	}
	if err != nil {
		vm.mu.Unlock()
		vm.log.Warn("node list fetch failed: %v", err)
		if vm.onError != nil {
			vm.onError(err)
		}
		return
	}

	if res.Summary != nil {
		vm.raw = res.Summary
	} else {
		vm.raw = []RawNode{}
	}
	vm.msg = res.Msg
	vm.updated = time.Now()
	vm.timer = vm.afterFunc(vm.interval, func() { vm.poll(gen) })
	vm.mu.Unlock()

	vm.log.Debug("fetched %d nodes", len(res.Summary))
	vm.notify()
}
