package nodes

import (
	"fmt"
	"time"
)

// StateAlive is the raylet state of a live node.
const StateAlive = "ALIVE"

// Raylet is the per-node runtime status record reported by the dashboard.
type Raylet struct {
	NodeID     string             `json:"nodeId"`
	State      string             `json:"state"`
	IsHeadNode bool               `json:"isHeadNode"`
	Labels     map[string]string  `json:"labels,omitempty"`
	Resources  map[string]float64 `json:"resourcesTotal,omitempty"`
	StartTime  int64              `json:"startTime,omitempty"` // ms since epoch
	EndTime    int64              `json:"endTime,omitempty"`   // ms since epoch, set once dead
}

// RawNode is one entry of the dashboard's node summary, in fetch order.
type RawNode struct {
	Hostname string `json:"hostname"`
	IP       string `json:"ip"`
	Raylet   Raylet `json:"raylet"`
}

// ViewNode is a RawNode with the raylet state copied to the top level.
type ViewNode struct {
	RawNode
	State string `json:"state"`
}

// ToView converts a raw node into its view form.
func ToView(n RawNode) ViewNode {
	return ViewNode{RawNode: n, State: n.Raylet.State}
}

// IsAlive reports whether the node's raylet is ALIVE.
func (n ViewNode) IsAlive() bool {
	return n.State == StateAlive
}

// Uptime returns how long the node has been (or was) up, measured against now.
// Zero when the dashboard did not report a start time.
func (n ViewNode) Uptime(now time.Time) time.Duration {
	if n.Raylet.StartTime <= 0 {
		return 0
	}
	end := now
	if n.Raylet.EndTime > 0 {
		end = time.UnixMilli(n.Raylet.EndTime)
	}
	d := end.Sub(time.UnixMilli(n.Raylet.StartTime))
	if d < 0 {
		return 0
	}
	return d
}

// DisplayMode selects how the renderer lays out the node list.
type DisplayMode string

const (
	ModeTable DisplayMode = "table"
	ModeCard  DisplayMode = "card"
)

// ParseDisplayMode validates a mode name.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case ModeTable, ModeCard:
		return DisplayMode(s), nil
	}
	return "", fmt.Errorf("unknown display mode %q (want table or card)", s)
}

// Toggle switches between table and card.
func (m DisplayMode) Toggle() DisplayMode {
	if m == ModeCard {
		return ModeTable
	}
	return ModeCard
}
