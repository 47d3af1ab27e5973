package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline block characters, lowest to highest.
const sparklineBlocks = "▁▂▃▄▅▆▇█"

var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws the last width percentages as block characters on a
// fixed 0-100 scale, so bar height lines up with the gauge next to it. Values
// outside the scale are clamped. The colour follows the newest value.
func RenderSparkline(data []float64, width, warning, critical int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	top := len(sparklineBlockRunes) - 1
	var sb strings.Builder
	for _, v := range data {
		level := int(math.Round(v / 100 * float64(top)))
		level = max(0, min(top, level))
		sb.WriteRune(sparklineBlockRunes[level])
	}

	last := data[len(data)-1]
	return lipgloss.NewStyle().
		Foreground(ThresholdColor(last, warning, critical)).
		Render(sb.String())
}
