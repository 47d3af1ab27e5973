package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vdash/internal/config"
	"github.com/rileyhilliard/vdash/internal/ui"
)

// Dashboard palette
const (
	ColorBorder        = lipgloss.Color("#2A2A4A")
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")
	ColorAccent        = lipgloss.Color("#FF2E97")
	ColorGraph         = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	BannerStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// threshold returns the configured warning and critical levels for a gauge.
func threshold(t config.ThresholdValues) (int, int) {
	if t.Warning == 0 && t.Critical == 0 {
		return 70, 90
	}
	return t.Warning, t.Critical
}

// ProgressBar renders a bar of the given width, colored by thresholds.
func ProgressBar(width int, percent float64, t config.ThresholdValues) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	warning, critical := threshold(t)
	return lipgloss.NewStyle().Foreground(ui.ThresholdColor(percent, warning, critical)).Render(bar)
}

// MetricStyle colors a percentage value by thresholds.
func MetricStyle(percent float64, t config.ThresholdValues) lipgloss.Style {
	warning, critical := threshold(t)
	return lipgloss.NewStyle().Foreground(ui.ThresholdColor(percent, warning, critical))
}
