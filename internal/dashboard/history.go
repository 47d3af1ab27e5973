package dashboard

// DefaultHistorySize is the number of samples kept per metric.
const DefaultHistorySize = 60

// History keeps recent CPU, memory and GPU percentages for sparklines.
// It is owned by the Bubble Tea model and not safe for concurrent use.
type History struct {
	cpu *ringBuffer
	ram *ringBuffer
	gpu *ringBuffer // nil until a sample with a GPU arrives
	size int
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with the given buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		cpu:  newRingBuffer(size),
		ram:  newRingBuffer(size),
		size: size,
	}
}

// Push records one sample. gpu is ignored when hasGPU is false.
func (h *History) Push(cpu, ram, gpu float64, hasGPU bool) {
	h.cpu.push(cpu)
	h.ram.push(ram)
	if hasGPU {
		if h.gpu == nil {
			h.gpu = newRingBuffer(h.size)
		}
		h.gpu.push(gpu)
	}
}

// CPU returns up to count CPU samples, oldest first.
func (h *History) CPU(count int) []float64 { return h.cpu.getLast(count) }

// RAM returns up to count memory samples, oldest first.
func (h *History) RAM(count int) []float64 { return h.ram.getLast(count) }

// GPU returns up to count GPU utilisation samples, oldest first.
func (h *History) GPU(count int) []float64 {
	if h.gpu == nil {
		return nil
	}
	return h.gpu.getLast(count)
}

// Len returns the number of samples recorded, capped at the buffer size.
func (h *History) Len() int {
	return h.cpu.count
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order.
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	// head is the next write position, so the newest value is at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
