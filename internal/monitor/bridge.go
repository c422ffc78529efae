package monitor

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// Bridge forwards view-model callbacks into a running program. The view-model
// calls back from its own goroutines, and sometimes from inside Update when a
// key handler changes a view parameter, so delivery always happens on a fresh
// goroutine: a direct Program.Send from Update would block the event loop.
type Bridge struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending atomic.Bool
}

// NewBridge creates a bridge with no program attached. Callbacks before Attach
// are dropped; the model reads a fresh snapshot when it starts.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// OnChange tells the program the view-model changed. Bursts of changes
// collapse into one message when the program is slow to pick them up.
func (b *Bridge) OnChange() {
	if !b.pending.CompareAndSwap(false, true) {
		return
	}
	go func() {
		b.pending.Store(false)
		b.deliver(changedMsg{})
	}()
}

// OnError tells the program a fetch failed.
func (b *Bridge) OnError(err error) {
	go b.deliver(fetchErrMsg{err: err})
}

func (b *Bridge) deliver(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}
