// Package ui holds the terminal styling shared by vdash's outputs: the
// colour palette, status symbols, sparklines and the connection status
// badge.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Connected, passing checks
//	ColorError     (red)    - Disconnected, failures
//	ColorWarning   (yellow) - Connecting, warnings
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use SetColorMode to honour --no-color and the output.color setting.
//
// # Symbols
//
//	SymbolSuccess    (checkmark)  - Check passed
//	SymbolFail       (X)          - Check failed
//	SymbolWarn       (warning)    - Check warned
//	SymbolConnected  (filled)     - Stream open
//	SymbolConnecting (half-fill)  - Dial in progress
//	SymbolOffline    (circle)     - Stream down, retry pending
package ui
