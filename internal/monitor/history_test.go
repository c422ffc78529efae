package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHistory(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{"default size", 0, DefaultHistorySize},
		{"negative size", -1, DefaultHistorySize},
		{"custom size", 100, 100},
		{"small size", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.size)
			require.NotNil(t, h)
			assert.Equal(t, tt.expected, h.alive.size)
			assert.Equal(t, tt.expected, h.total.size)
			assert.Equal(t, 0, h.Len())
		})
	}
}

func TestHistory_Record(t *testing.T) {
	h := NewHistory(10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, h.Record(time.Time{}, 1, 1), "zero time is ignored")
	assert.True(t, h.Record(base, 2, 3))
	assert.False(t, h.Record(base, 5, 5), "same fetch is recorded once")
	assert.False(t, h.Record(base.Add(-time.Second), 5, 5), "older fetch is ignored")
	assert.True(t, h.Record(base.Add(time.Second), 3, 3))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []int{2, 3}, h.Alive(10))
	assert.Equal(t, []int{3, 3}, h.Total(10))
}

func TestHistory_Overflow(t *testing.T) {
	h := NewHistory(5)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 8 {
		h.Record(base.Add(time.Duration(i)*time.Second), i, 10)
	}

	assert.Equal(t, 5, h.Len())
	assert.Equal(t, []int{3, 4, 5, 6, 7}, h.Alive(5))
	assert.Equal(t, []int{6, 7}, h.Alive(2))
}

func TestRingBuffer_Slice(t *testing.T) {
	rb := newRingBuffer(3)
	assert.Nil(t, rb.slice(2), "empty buffer")

	rb.push(1)
	assert.Equal(t, []int{1}, rb.slice(5), "n larger than count")
	assert.Nil(t, rb.slice(0))

	rb.push(2)
	rb.push(3)
	rb.push(4)
	assert.Equal(t, []int{2, 3, 4}, rb.slice(3))
}
