package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
)

// feedChart replays worker updates through an aggregator into the chart the
// same way the bridge does during a run.
func feedChart(c *ChartModel, workers int, updates []progress.ProgressUpdate) orchestration.AggregatedProgress {
	agg := orchestration.NewProgressAggregator(workers)
	var last orchestration.AggregatedProgress
	for _, u := range updates {
		last = agg.Update(u)
		c.AddDataPoint(last.Value, last.AverageProgress, last.ETA)
	}
	return last
}

func TestChartModel_FollowsAggregatedProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		workers     int
		updates     []progress.ProgressUpdate
		wantAverage float64
		wantPercent string
	}{
		{
			name:    "single worker halfway",
			workers: 1,
			updates: []progress.ProgressUpdate{
				{WorkerIndex: 0, Value: 0.25},
				{WorkerIndex: 0, Value: 0.5},
			},
			wantAverage: 0.5,
			wantPercent: "50.0%",
		},
		{
			name:    "two of four partitions finished",
			workers: 4,
			updates: []progress.ProgressUpdate{
				{WorkerIndex: 0, Value: 1},
				{WorkerIndex: 2, Value: 1},
			},
			wantAverage: 0.5,
			wantPercent: "50.0%",
		},
		{
			name:    "every partition finished",
			workers: 2,
			updates: []progress.ProgressUpdate{
				{WorkerIndex: 1, Value: 1},
				{WorkerIndex: 0, Value: 0.5},
				{WorkerIndex: 0, Value: 1},
			},
			wantAverage: 1,
			wantPercent: "100.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewChartModel()
			c.SetSize(60, 12)

			last := feedChart(&c, tt.workers, tt.updates)

			if c.averageProgress != tt.wantAverage {
				t.Errorf("averageProgress = %v, want %v", c.averageProgress, tt.wantAverage)
			}
			if c.eta != last.ETA {
				t.Errorf("eta = %v, want aggregator ETA %v", c.eta, last.ETA)
			}
			if got := c.history.Len(); got != len(tt.updates) {
				t.Errorf("history has %d samples, want one per update (%d)", got, len(tt.updates))
			}
			if got := c.history.Last(); got != tt.wantAverage*100 {
				t.Errorf("last sample = %v, want %v", got, tt.wantAverage*100)
			}
			if bar := c.renderProgressBar(); !strings.Contains(bar, tt.wantPercent) {
				t.Errorf("progress bar %q missing %q", bar, tt.wantPercent)
			}
		})
	}
}

func TestChartModel_CompletedRunShowsElapsed(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(60, 12)
	feedChart(&c, 2, []progress.ProgressUpdate{{WorkerIndex: 0, Value: 0.5}})

	running := c.View()
	if !strings.Contains(running, "Progress Chart") || !strings.Contains(running, "ETA:") {
		t.Errorf("running view should carry the title and an ETA, got %q", running)
	}

	feedChart(&c, 2, []progress.ProgressUpdate{
		{WorkerIndex: 0, Value: 1},
		{WorkerIndex: 1, Value: 1},
	})
	c.SetDone(1500 * time.Millisecond)
	done := c.View()
	if !strings.Contains(done, "Done in") {
		t.Errorf("completed view should report the elapsed time, got %q", done)
	}
	if strings.Contains(done, "ETA:") {
		t.Error("completed view should no longer show an ETA")
	}
}

func TestChartModel_ProgressBarNeedsRoom(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(15, 12)
	feedChart(&c, 1, []progress.ProgressUpdate{{WorkerIndex: 0, Value: 0.5}})
	if bar := c.renderProgressBar(); bar != "" {
		t.Errorf("narrow panel should drop the bar, got %q", bar)
	}
}

func TestChartModel_SparklinesFollowHeight(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		height int
		want   bool
	}{
		{height: 8, want: false},
		{height: 10, want: true},
		{height: 20, want: true},
	} {
		c := NewChartModel()
		c.SetSize(60, tt.height)
		c.UpdateSysStats(35, 60)
		view := c.View()
		got := strings.Contains(view, "CPU") && strings.Contains(view, "MEM")
		if got != tt.want {
			t.Errorf("height %d: sparklines shown = %v, want %v", tt.height, got, tt.want)
		}
	}
}

func TestChartModel_SetSizeFitsSparklines(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(60, 12)
	if got, want := c.cpuHistory.Cap(), 60-sparklineOverhead; got != want {
		t.Errorf("cpu capacity = %d, want %d", got, want)
	}
	c.SetSize(5, 12)
	if got := c.memHistory.Cap(); got != 1 {
		t.Errorf("mem capacity on a tiny panel = %d, want 1", got)
	}
}

func TestChartModel_ResetStartsNextRunClean(t *testing.T) {
	t.Parallel()
	c := NewChartModel()
	c.SetSize(60, 12)
	feedChart(&c, 2, []progress.ProgressUpdate{
		{WorkerIndex: 0, Value: 1},
		{WorkerIndex: 1, Value: 1},
	})
	c.UpdateSysStats(50, 50)
	c.SetDone(time.Second)

	c.Reset()

	if c.history.Len() != 0 || c.cpuHistory.Len() != 0 || c.memHistory.Len() != 0 {
		t.Error("Reset should empty every history buffer")
	}
	if c.averageProgress != 0 || c.eta != 0 || c.done || c.elapsed != 0 {
		t.Errorf("Reset left state behind: avg=%v eta=%v done=%v elapsed=%v",
			c.averageProgress, c.eta, c.done, c.elapsed)
	}
	if !strings.Contains(c.View(), "ETA:") {
		t.Error("a reset chart should be back in the running layout")
	}
}
