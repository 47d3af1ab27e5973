package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess    = "✓" // Check passed
	SymbolFail       = "✗" // Check failed
	SymbolWarn       = "⚠" // Check needs attention
	SymbolConnected  = "●" // Stream open
	SymbolConnecting = "◐" // Dial in progress
	SymbolOffline    = "○" // Stream down
)

// SpinnerFrames animate the connecting indicator.
var SpinnerFrames = []string{"◐", "◓", "◑", "◒"}
