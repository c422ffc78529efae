package nodes

import "fmt"

// PageKey names a PageState field.
type PageKey string

const (
	PageSizeKey PageKey = "pageSize"
	PageNoKey   PageKey = "pageNo"
)

// Default page state.
const (
	DefaultPageSize = 10
	DefaultPageNo   = 1
)

// ParsePageKey validates a page field name.
func ParsePageKey(s string) (PageKey, error) {
	switch PageKey(s) {
	case PageSizeKey, PageNoKey:
		return PageKey(s), nil
	}
	return "", fmt.Errorf("unknown page key %q (want pageSize or pageNo)", s)
}

// PageState is UI-only pagination. The view-model stores it; slicing the
// derived list is left to the renderer (see Bounds).
type PageState struct {
	PageSize int `json:"pageSize"`
	PageNo   int `json:"pageNo"`
}

// DefaultPageState returns {10, 1}.
func DefaultPageState() PageState {
	return PageState{PageSize: DefaultPageSize, PageNo: DefaultPageNo}
}

// Set returns a copy with one field replaced.
func (p PageState) Set(key PageKey, val int) PageState {
	switch key {
	case PageSizeKey:
		p.PageSize = val
	case PageNoKey:
		p.PageNo = val
	}
	return p
}

// PageCount returns the number of pages needed for total items (at least 1).
func (p PageState) PageCount(total int) int {
	if p.PageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// Current returns PageNo clamped into [1, PageCount(total)].
func (p PageState) Current(total int) int {
	return min(max(p.PageNo, 1), p.PageCount(total))
}

// Bounds returns the [start, end) slice bounds of the current page for total
// items, clamping PageNo into range. A non-positive PageSize means one page.
func (p PageState) Bounds(total int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, total
	}
	pageNo := p.PageNo
	if pageNo < 1 {
		pageNo = 1
	}
	if last := p.PageCount(total); pageNo > last {
		pageNo = last
	}
	start = (pageNo - 1) * p.PageSize
	end = start + p.PageSize
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return start, end
}
