package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/feed"
)

// StatusSymbol returns the glyph for a connection status.
func StatusSymbol(s feed.Status) string {
	switch s {
	case feed.StatusConnected:
		return SymbolConnected
	case feed.StatusDisconnected:
		return SymbolOffline
	default:
		return SymbolConnecting
	}
}

// StatusColor returns the color for a connection status.
func StatusColor(s feed.Status) lipgloss.Color {
	switch s {
	case feed.StatusConnected:
		return ColorSuccess
	case feed.StatusDisconnected:
		return ColorError
	default:
		return ColorWarning
	}
}

// StatusBadge renders "● connected" style text in the status color.
func StatusBadge(s feed.Status) string {
	return lipgloss.NewStyle().
		Foreground(StatusColor(s)).
		Render(StatusSymbol(s) + " " + s.String())
}
