package nodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPageState(t *testing.T) {
	assert.Equal(t, PageState{PageSize: 10, PageNo: 1}, DefaultPageState())
}

func TestPageState_Set(t *testing.T) {
	p := DefaultPageState()

	p2 := p.Set(PageNoKey, 3)
	assert.Equal(t, PageState{PageSize: 10, PageNo: 3}, p2)
	assert.Equal(t, 1, p.PageNo, "Set returns a copy")

	p3 := p2.Set(PageSizeKey, 25)
	assert.Equal(t, PageState{PageSize: 25, PageNo: 3}, p3)

	assert.Equal(t, p3, p3.Set(PageKey("bogus"), 99))
}

func TestParsePageKey(t *testing.T) {
	k, err := ParsePageKey("pageSize")
	assert.NoError(t, err)
	assert.Equal(t, PageSizeKey, k)

	_, err = ParsePageKey("offset")
	assert.Error(t, err)
}

func TestPageState_PageCount(t *testing.T) {
	tests := []struct {
		size, total, want int
	}{
		{10, 0, 1},
		{10, 1, 1},
		{10, 10, 1},
		{10, 11, 2},
		{3, 10, 4},
		{0, 50, 1},
	}

	for _, tt := range tests {
		p := PageState{PageSize: tt.size, PageNo: 1}
		assert.Equal(t, tt.want, p.PageCount(tt.total), "size=%d total=%d", tt.size, tt.total)
	}
}

func TestPageState_Bounds(t *testing.T) {
	tests := []struct {
		name       string
		page       PageState
		total      int
		start, end int
	}{
		{"first page", PageState{10, 1}, 25, 0, 10},
		{"last partial page", PageState{10, 3}, 25, 20, 25},
		{"page past the end clamps", PageState{10, 9}, 25, 20, 25},
		{"page zero clamps", PageState{10, 0}, 25, 0, 10},
		{"empty list", PageState{10, 2}, 0, 0, 0},
		{"no page size", PageState{0, 4}, 7, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.page.Bounds(tt.total)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestPageState_Current(t *testing.T) {
	assert.Equal(t, 1, PageState{10, 0}.Current(25))
	assert.Equal(t, 2, PageState{10, 2}.Current(25))
	assert.Equal(t, 3, PageState{10, 7}.Current(25))
	assert.Equal(t, 1, PageState{10, 4}.Current(0))
}
