// Package nodes holds the node list view-model behind the raytop dashboard.
//
// The view-model owns three things:
//
//   - A poll loop that fetches the cluster's node summary, then re-arms a
//     single timer for the next fetch once the previous one has completed.
//   - User-adjustable view parameters: substring filters on hostname, ip and
//     state, a sort key and direction, page state, and a display mode.
//   - A derivation that turns the latest raw fetch plus the view parameters
//     into the list a renderer shows.
//
// # Derivation
//
// Snapshot recomputes the derived list on every call:
//
//  1. Raw nodes are mapped to ViewNode, copying raylet.state to State.
//  2. The list is stably sorted by the user's Sorter.
//  3. The list is stably re-sorted by head node first, then ALIVE before any
//     other state (other states compare by their literal string), then node id.
//  4. Nodes are kept when every filter's field is non-empty and contains the
//     filter value (case sensitive).
//
// Because step 3 is a full ordering on most real data, the Sorter only decides
// the order of nodes that tie on all three fixed keys.
//
// # Poll Loop
//
//	Mount            -> fetch now, then one timer per completed fetch
//	OnSwitchChange   -> false stops the timer; true fetches now and re-arms
//	Refresh          -> restarts the cycle with an immediate fetch
//	Unmount          -> stops the timer and drops any in-flight result
//
// A generation counter tags every fetch and timer, so a callback from a
// superseded cycle never touches state. A failed fetch leaves state alone and
// does not re-arm; the error goes to the OnError hook and retry is the
// caller's decision.
package nodes
