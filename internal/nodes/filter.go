package nodes

import (
	"fmt"
	"strings"
)

// FilterKey names a filterable node field.
type FilterKey int

const (
	FilterHostname FilterKey = iota
	FilterIP
	FilterState
)

// filterKeyCount is the number of FilterKey variants.
const filterKeyCount = 3

// String returns the field name used by the dashboard ("hostname", "ip", "state").
func (k FilterKey) String() string {
	switch k {
	case FilterHostname:
		return "hostname"
	case FilterIP:
		return "ip"
	case FilterState:
		return "state"
	default:
		return "unknown"
	}
}

// Value returns the node's value for this field.
func (k FilterKey) Value(n ViewNode) string {
	switch k {
	case FilterHostname:
		return n.Hostname
	case FilterIP:
		return n.IP
	case FilterState:
		return n.State
	default:
		return ""
	}
}

// Next cycles to the next filter key.
func (k FilterKey) Next() FilterKey {
	return FilterKey((int(k) + 1) % filterKeyCount)
}

// FilterKeys lists every filter key in display order.
func FilterKeys() []FilterKey {
	return []FilterKey{FilterHostname, FilterIP, FilterState}
}

// ParseFilterKey maps a field name to its FilterKey.
func ParseFilterKey(s string) (FilterKey, error) {
	for _, k := range FilterKeys() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown filter key %q (want hostname, ip or state)", s)
}

// FilterEntry is one substring predicate.
type FilterEntry struct {
	Key FilterKey
	Val string
}

// ParseFilter parses "key=value". The value may be empty.
func ParseFilter(s string) (FilterEntry, error) {
	key, val, ok := strings.Cut(s, "=")
	if !ok {
		return FilterEntry{}, fmt.Errorf("filter %q is not key=value", s)
	}
	k, err := ParseFilterKey(strings.TrimSpace(key))
	if err != nil {
		return FilterEntry{}, err
	}
	return FilterEntry{Key: k, Val: val}, nil
}

// Filters is an immutable, key-unique list of filter entries in insertion order.
// The zero value has no entries.
type Filters struct {
	entries []FilterEntry
}

// NewFilters builds Filters from entries, later entries replacing earlier ones
// with the same key.
func NewFilters(entries ...FilterEntry) Filters {
	var f Filters
	for _, e := range entries {
		f = f.With(e.Key, e.Val)
	}
	return f
}

// With returns a copy with key set to val. An existing entry keeps its position.
func (f Filters) With(key FilterKey, val string) Filters {
	out := make([]FilterEntry, len(f.entries), len(f.entries)+1)
	copy(out, f.entries)
	for i := range out {
		if out[i].Key == key {
			out[i].Val = val
			return Filters{entries: out}
		}
	}
	return Filters{entries: append(out, FilterEntry{Key: key, Val: val})}
}

// Without returns a copy with key removed.
func (f Filters) Without(key FilterKey) Filters {
	out := make([]FilterEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return Filters{entries: out}
}

// Get returns the value for key.
func (f Filters) Get(key FilterKey) (string, bool) {
	for _, e := range f.entries {
		if e.Key == key {
			return e.Val, true
		}
	}
	return "", false
}

// Entries returns a copy of the entries in insertion order.
func (f Filters) Entries() []FilterEntry {
	out := make([]FilterEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of entries.
func (f Filters) Len() int {
	return len(f.entries)
}

// Match reports whether n satisfies every entry: the field must be non-empty
// and contain the entry's value.
func (f Filters) Match(n ViewNode) bool {
	for _, e := range f.entries {
		v := e.Key.Value(n)
		if v == "" || !strings.Contains(v, e.Val) {
			return false
		}
	}
	return true
}

// String renders the filters as "key=value" pairs.
func (f Filters) String() string {
	parts := make([]string, len(f.entries))
	for i, e := range f.entries {
		parts[i] = e.Key.String() + "=" + e.Val
	}
	return strings.Join(parts, " ")
}
