package tui

import (
	"slices"
	"strings"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		capacity int
		push     []float64
		resize   int
		want     []float64
		wantCap  int
	}{
		{"partial", 3, []float64{1, 2}, 0, []float64{1, 2}, 3},
		{"full", 3, []float64{1, 2, 3}, 0, []float64{1, 2, 3}, 3},
		{"overflow keeps newest", 3, []float64{1, 2, 3, 4, 5}, 0, []float64{3, 4, 5}, 3},
		{"zero capacity", 0, []float64{7, 42}, 0, []float64{42}, 1},
		{"grow", 3, []float64{1, 2, 3, 4}, 5, []float64{2, 3, 4}, 5},
		{"shrink keeps newest", 5, []float64{1, 2, 3, 4, 5}, 2, []float64{4, 5}, 2},
		{"same capacity", 3, []float64{1, 2}, 3, []float64{1, 2}, 3},
		{"empty", 4, nil, 0, nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rb := NewRingBuffer(tt.capacity)
			for _, v := range tt.push {
				rb.Push(v)
			}
			if tt.resize != 0 {
				rb.Resize(tt.resize)
			}
			if got := rb.Slice(); !slices.Equal(got, tt.want) {
				t.Errorf("Slice() = %v, want %v", got, tt.want)
			}
			if rb.Cap() != tt.wantCap {
				t.Errorf("Cap() = %d, want %d", rb.Cap(), tt.wantCap)
			}
			if rb.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", rb.Len(), len(tt.want))
			}
			wantLast := 0.0
			if len(tt.want) > 0 {
				wantLast = tt.want[len(tt.want)-1]
			}
			if rb.Last() != wantLast {
				t.Errorf("Last() = %v, want %v", rb.Last(), wantLast)
			}
		})
	}
}

func TestRingBuffer_PushAfterResizeAndReset(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(2)
	rb.Push(1)
	rb.Push(2)
	rb.Push(3)
	rb.Resize(3)
	rb.Push(4)
	rb.Push(5)
	if got, want := rb.Slice(), []float64{3, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("Slice() = %v, want %v", got, want)
	}

	rb.Reset()
	if rb.Len() != 0 || rb.Slice() != nil {
		t.Errorf("Reset left %d samples", rb.Len())
	}
	rb.Push(9)
	if rb.Last() != 9 {
		t.Errorf("Last() after reset = %v, want 9", rb.Last())
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"floor", []float64{0, 0}, "▁▁"},
		{"ceiling", []float64{100, 100}, "██"},
		{"clamped", []float64{-10, 150}, "▁█"},
		{"midpoint", []float64{50}, "▄"},
		{"ramp", []float64{0, 15, 29, 43, 58, 72, 86, 100}, "▁▂▃▄▅▆▇█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestRenderBrailleChart(t *testing.T) {
	t.Parallel()

	t.Run("degenerate", func(t *testing.T) {
		t.Parallel()
		if RenderBrailleChart(nil, 4, 2) != nil {
			t.Error("no samples should render nothing")
		}
		if RenderBrailleChart([]float64{50}, 0, 2) != nil {
			t.Error("zero width should render nothing")
		}
		if RenderBrailleChart([]float64{50}, 4, 0) != nil {
			t.Error("zero rows should render nothing")
		}
	})

	t.Run("full column fills both rows", func(t *testing.T) {
		t.Parallel()
		lines := RenderBrailleChart([]float64{100, 100}, 1, 2)
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2", len(lines))
		}
		for i, line := range lines {
			if line != "⣿" {
				t.Errorf("line %d = %q, want a full cell", i, line)
			}
		}
	})

	t.Run("zero keeps a baseline", func(t *testing.T) {
		t.Parallel()
		lines := RenderBrailleChart([]float64{0, 0}, 1, 1)
		if lines[0] != string(rune(brailleBlank|0x40|0x80)) {
			t.Errorf("baseline = %q, want only the bottom dots", lines[0])
		}
	})

	t.Run("right aligned", func(t *testing.T) {
		t.Parallel()
		lines := RenderBrailleChart([]float64{100}, 3, 1)
		cells := []rune(lines[0])
		if len(cells) != 3 {
			t.Fatalf("got %d cells, want 3", len(cells))
		}
		if cells[0] != brailleBlank || cells[1] != brailleBlank {
			t.Errorf("leading cells should be blank, got %q", lines[0])
		}
		if cells[2] != brailleBlank|0x08|0x10|0x20|0x80 {
			t.Errorf("newest sample should fill the right column of the last cell, got %q", lines[0])
		}
	})

	t.Run("oldest samples dropped", func(t *testing.T) {
		t.Parallel()
		values := []float64{100, 100, 100, 0, 0}
		lines := RenderBrailleChart(values, 1, 1)
		if strings.ContainsRune(lines[0], '⣿') {
			t.Errorf("only the two newest samples should be plotted, got %q", lines[0])
		}
	})
}
