package nodes

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey names the field the user sorts by. The empty key leaves order alone.
type SortKey string

const (
	SortNone     SortKey = ""
	SortHostname SortKey = "hostname"
	SortIP       SortKey = "ip"
	SortState    SortKey = "state"
	SortNodeID   SortKey = "nodeId"
)

var sortKeys = []SortKey{SortNone, SortHostname, SortIP, SortState, SortNodeID}

// ParseSortKey validates a sort key name. "" and "none" both mean no sort.
func ParseSortKey(s string) (SortKey, error) {
	if s == "none" {
		return SortNone, nil
	}
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort key %q (want hostname, ip, state or nodeId)", s)
}

// String returns a label for the key.
func (k SortKey) String() string {
	if k == SortNone {
		return "default"
	}
	return string(k)
}

// Next cycles to the next sort key.
func (k SortKey) Next() SortKey {
	i := slices.Index(sortKeys, k)
	return sortKeys[(i+1)%len(sortKeys)]
}

func (k SortKey) value(n ViewNode) string {
	switch k {
	case SortHostname:
		return n.Hostname
	case SortIP:
		return n.IP
	case SortState:
		return n.State
	case SortNodeID:
		return n.Raylet.NodeID
	default:
		return ""
	}
}

// Sorter is the user-controlled comparator applied before the fixed ordering.
type Sorter struct {
	Key  SortKey
	Desc bool
}

// Compare orders a and b by the sorter's key. Every pair is equal when the
// key is SortNone.
func (s Sorter) Compare(a, b ViewNode) int {
	if s.Key == SortNone {
		return 0
	}
	c := strings.Compare(s.Key.value(a), s.Key.value(b))
	if s.Desc {
		return -c
	}
	return c
}

// stateToken maps ALIVE to "0" so live nodes sort ahead of every named state.
func stateToken(state string) string {
	if state == StateAlive {
		return "0"
	}
	return state
}

// compareFixed orders head nodes first, then by state token, then by node id.
func compareFixed(a, b ViewNode) int {
	if a.Raylet.IsHeadNode != b.Raylet.IsHeadNode {
		if a.Raylet.IsHeadNode {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(stateToken(a.Raylet.State), stateToken(b.Raylet.State)); c != 0 {
		return c
	}
	return cmp.Compare(a.Raylet.NodeID, b.Raylet.NodeID)
}

// Derive builds the list a renderer shows from the raw fetch result.
// raw is never modified.
func Derive(raw []RawNode, sorter Sorter, filters Filters) []ViewNode {
	list := make([]ViewNode, len(raw))
	for i, n := range raw {
		list[i] = ToView(n)
	}

	slices.SortStableFunc(list, sorter.Compare)
	slices.SortStableFunc(list, compareFixed)

	out := make([]ViewNode, 0, len(list))
	for _, n := range list {
		if filters.Match(n) {
			out = append(out, n)
		}
	}
	return out
}
