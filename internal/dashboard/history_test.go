package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.CPU(5))
	assert.Nil(t, h.GPU(5))
}

func TestHistory_DefaultSize(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DefaultHistorySize+10; i++ {
		h.Push(float64(i), 0, 0, false)
	}
	assert.Equal(t, DefaultHistorySize, h.Len())
}

func TestHistory_OrderAndWrap(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(float64(i), float64(i*10), 0, false)
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{3, 4, 5}, h.CPU(10), "oldest first, capped at size")
	assert.Equal(t, []float64{40, 50}, h.RAM(2))
	assert.Nil(t, h.CPU(0))
}

func TestHistory_GPUStartsWithFirstSample(t *testing.T) {
	h := NewHistory(4)
	h.Push(1, 1, 99, false)
	assert.Nil(t, h.GPU(4), "unavailable GPU records nothing")

	h.Push(2, 2, 50, true)
	h.Push(3, 3, 60, true)
	assert.Equal(t, []float64{50, 60}, h.GPU(4))
}
