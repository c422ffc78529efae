// Package monitor implements the live node list dashboard.
//
// The dashboard renders a nodes.ViewModel: a header with node counts and an
// alive-count sparkline, the current page as a table or a grid of cards, and a
// footer with key hints or the last fetch error.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds the last snapshot, widgets and UI-only state (selection, help, detail view)
//   - Update: Processes keystrokes and view-model notifications
//   - View: Renders the current snapshot to a string for display
//
// # Key Components
//
//	Model    - The Bubble Tea model; reads the view-model through Source
//	Bridge   - Forwards view-model callbacks into the program as messages
//	History  - Ring buffers of alive/total counts for the header sparkline
//
// # Message Flow
//
// The view-model owns polling. The dashboard only reacts:
//
//  1. A fetch lands and the view-model calls Bridge.OnChange
//  2. Bridge delivers changedMsg and Model re-reads the snapshot
//  3. A failed fetch arrives as fetchErrMsg; the footer shows it and a
//     retryMsg fires one poll interval later to call Refresh
//  4. Keys that change view parameters call the view-model setters and
//     re-read the snapshot immediately
package monitor
