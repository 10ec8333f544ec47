package tui

// RingBuffer keeps the most recent samples of a series, oldest first. It
// holds at most Cap() samples; older ones are discarded as new ones arrive.
type RingBuffer struct {
	buf   []float64
	start int
	n     int
}

// NewRingBuffer creates a buffer holding up to capacity samples (at least 1).
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{buf: make([]float64, max(capacity, 1))}
}

// Push appends v, evicting the oldest sample when full.
func (r *RingBuffer) Push(v float64) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *RingBuffer) Len() int { return r.n }

func (r *RingBuffer) Cap() int { return len(r.buf) }

// Last returns the newest sample, or 0 when empty.
func (r *RingBuffer) Last() float64 {
	if r.n == 0 {
		return 0
	}
	return r.buf[(r.start+r.n-1)%len(r.buf)]
}

// Slice copies the samples out, oldest first. It returns nil when empty.
func (r *RingBuffer) Slice() []float64 {
	if r.n == 0 {
		return nil
	}
	out := make([]float64, 0, r.n)
	for i := range r.n {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// Resize changes the capacity. When shrinking, the newest samples are kept.
func (r *RingBuffer) Resize(capacity int) {
	capacity = max(capacity, 1)
	if capacity == len(r.buf) {
		return
	}
	kept := r.Slice()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}
	r.buf = make([]float64, capacity)
	r.start = 0
	r.n = copy(r.buf, kept)
}

func (r *RingBuffer) Reset() {
	r.start, r.n = 0, 0
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// clampPercent bounds v to [0, 100].
func clampPercent(v float64) float64 {
	return min(max(v, 0), 100)
}

// RenderSparkline draws one block character per percentage sample.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	top := len(sparkLevels) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = sparkLevels[int(clampPercent(v)/100*float64(top))]
	}
	return string(out)
}

// Braille cells are 2 dots wide and 4 dots tall. dotBit[x][y] is the bit of
// the dot at column x, row y (row 0 on top) relative to U+2800.
var dotBit = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

const brailleBlank = 0x2800

// RenderBrailleChart plots percentage samples as a filled area chart of
// rows lines by width cells. Each sample is one dot column and the newest
// sample sits at the right edge; older samples that do not fit are dropped.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	dotsWide, dotsHigh := width*2, rows*4
	if len(values) > dotsWide {
		values = values[len(values)-dotsWide:]
	}
	offset := dotsWide - len(values)

	cells := make([][]rune, rows)
	for y := range cells {
		cells[y] = make([]rune, width)
		for x := range cells[y] {
			cells[y][x] = brailleBlank
		}
	}

	for i, v := range values {
		x := offset + i
		// A sample of 0 still lights the bottom dot so the baseline is visible.
		height := 1 + int(clampPercent(v)/100*float64(dotsHigh-1))
		for h := range height {
			y := dotsHigh - 1 - h
			cells[y/4][x/2] |= dotBit[x%2][y%4]
		}
	}

	lines := make([]string, rows)
	for y, row := range cells {
		lines[y] = string(row)
	}
	return lines
}
