package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Step completed successfully
	SymbolFail     = "✗" // Step failed
	SymbolPending  = "○" // Node pending or step not started
	SymbolComplete = "●" // Node alive
	SymbolHead     = "★" // Head node
	SymbolPaused   = "‖" // Auto refresh off
)
