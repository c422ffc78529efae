// Package ui provides terminal UI components for raytop's CLI output.
//
// The package includes a line spinner for one-shot commands, a Bubble Tea
// spinner for the live view, sparklines, static tables, and the color
// palette shared with the monitor.
//
// # Color Scheme
//
// Colors are hex values; lipgloss degrades them to the terminal's profile:
//
//	ColorSuccess (green)  - ALIVE nodes, successful steps
//	ColorError   (red)    - DEAD nodes, failures
//	ColorWarning (yellow) - other states, stale data
//	ColorMuted   (gray)   - secondary text, timing info
//
// Use ApplyColorMode to honor --no-color and output.color.
//
// # Spinner Usage
//
//	s := ui.NewSpinner(os.Stderr, "Fetching nodes")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
package ui
