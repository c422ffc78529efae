package monitor

import "time"

// DefaultHistorySize is the number of fetches kept for the header sparkline.
const DefaultHistorySize = 60

// History keeps alive and total node counts for the most recent fetches.
// Samples are keyed by fetch time so re-reading the same snapshot is a no-op.
type History struct {
	alive *ringBuffer
	total *ringBuffer
	last  time.Time
}

// ringBuffer is a fixed-size circular buffer of ints.
type ringBuffer struct {
	data  []int
	head  int
	count int
	size  int
}

// NewHistory creates a history holding size samples.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		alive: newRingBuffer(size),
		total: newRingBuffer(size),
	}
}

// Record adds a sample for the fetch that landed at at. It returns false when
// at is zero or not newer than the last recorded fetch.
func (h *History) Record(at time.Time, alive, total int) bool {
	if at.IsZero() || !at.After(h.last) {
		return false
	}
	h.last = at
	h.alive.push(alive)
	h.total.push(total)
	return true
}

// Alive returns up to n alive counts, oldest first.
func (h *History) Alive(n int) []int {
	return h.alive.slice(n)
}

// Total returns up to n node counts, oldest first.
func (h *History) Total(n int) []int {
	return h.total.slice(n)
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return h.alive.count
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]int, size),
		size: size,
	}
}

func (rb *ringBuffer) push(v int) {
	rb.data[rb.head] = v
	rb.head = (rb.head + 1) % rb.size
	if rb.count < rb.size {
		rb.count++
	}
}

// slice returns the last n values in chronological order.
func (rb *ringBuffer) slice(n int) []int {
	if n <= 0 || rb.count == 0 {
		return nil
	}
	n = min(n, rb.count)

	out := make([]int, n)
	start := (rb.head - n + rb.size) % rb.size
	for i := range n {
		out[i] = rb.data[(start+i)%rb.size]
	}
	return out
}
