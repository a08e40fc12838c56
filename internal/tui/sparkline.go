package tui

// sparklineChars are the eight block heights, lowest first.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer keeps the most recent samples of a series.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer holding at most capacity samples.
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{data: make([]float64, max(capacity, 1))}
}

// Push adds a sample, overwriting the oldest when full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	r.count = min(r.count+1, len(r.data))
}

// Len returns the number of samples held.
func (r *RingBuffer) Len() int { return r.count }

// Last returns the most recent sample, or 0 if empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)]
}

// Slice returns the samples oldest first.
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := r.head - r.count + len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Reset clears all samples.
func (r *RingBuffer) Reset() {
	r.head, r.count = 0, 0
}

// RenderSparkline draws values scaled to [0, ceiling]; values outside are
// clamped. A non-positive ceiling scales to the largest value.
func RenderSparkline(values []float64, ceiling float64) string {
	if len(values) == 0 {
		return ""
	}
	if ceiling <= 0 {
		for _, v := range values {
			ceiling = max(ceiling, v)
		}
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if ceiling > 0 {
			idx = int(min(max(v, 0), ceiling) / ceiling * 7)
		}
		runes[i] = sparklineChars[idx]
	}
	return string(runes)
}
