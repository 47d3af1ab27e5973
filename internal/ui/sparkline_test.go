package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSparkline_Empty(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
	}{
		{"nil data", nil, 10},
		{"empty data", []float64{}, 10},
		{"zero width", []float64{50, 60}, 0},
		{"negative width", []float64{50, 60}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, RenderSparkline(tt.data, tt.width, 70, 90))
		})
	}
}

func TestRenderSparkline_Length(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		width int
		want  int
	}{
		{"single value", []float64{50}, 10, 1},
		{"one block per point", []float64{0, 25, 50, 75, 100}, 10, 5},
		{"truncated to width", []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 5, 5},
		{"negative values", []float64{-50, -25, 0, 25, 50}, 10, 5},
		{"large values", []float64{1000, 5000, 10000}, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripANSI(RenderSparkline(tt.data, tt.width, 70, 90))
			assert.Equal(t, tt.want, len([]rune(result)))
		})
	}
}

func TestRenderSparkline_Levels(t *testing.T) {
	runes := []rune(stripANSI(RenderSparkline([]float64{0, 50, 100}, 10, 70, 90)))

	assert.Equal(t, []rune("▁▅█"), runes)

	flat := stripANSI(RenderSparkline([]float64{40, 40, 40}, 10, 70, 90))
	assert.Equal(t, "▄▄▄", flat, "flat data keeps its absolute height")

	clamped := stripANSI(RenderSparkline([]float64{-50, 150}, 10, 70, 90))
	assert.Equal(t, "▁█", clamped)
}

func TestSparklineBlocksConstant(t *testing.T) {
	assert.Equal(t, "▁▂▃▄▅▆▇█", sparklineBlocks, "sparkline blocks should be in ascending order")
}

func TestThresholdColor(t *testing.T) {
	tests := []struct {
		percent  float64
		warning  int
		critical int
		expected string
	}{
		{0, 70, 90, string(ColorSuccess)},
		{69.9, 70, 90, string(ColorSuccess)},
		{70, 70, 90, string(ColorWarning)},
		{89.9, 70, 90, string(ColorWarning)},
		{90, 70, 90, string(ColorError)},
		{100, 70, 90, string(ColorError)},
		{55, 50, 60, string(ColorWarning)},
		{60, 50, 60, string(ColorError)},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			result := ThresholdColor(tt.percent, tt.warning, tt.critical)
			assert.Equal(t, tt.expected, string(result), "percent %.1f", tt.percent)
		})
	}
}

func stripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
