package orchestration

import (
	"time"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/progress"
)

// ProgressAggregator folds per-worker updates into an overall fraction and
// an ETA. Both the CLI and the TUI consume the progress channel through it.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numWorkers int
}

// NewProgressAggregator creates an aggregator for numWorkers workers.
// Returns nil if numWorkers <= 0.
func NewProgressAggregator(numWorkers int) *ProgressAggregator {
	if numWorkers <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numWorkers),
		numWorkers: numWorkers,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// WorkerIndex is the index of the worker that sent the update.
	WorkerIndex int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the mean across all workers.
	AverageProgress float64
	// ETA is the estimated time remaining.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.WorkerIndex, update.Value)
	return AggregatedProgress{
		WorkerIndex:     update.WorkerIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// Worker returns the last progress reported by worker i.
func (a *ProgressAggregator) Worker(i int) float64 {
	return a.state.Worker(i)
}

// NumWorkers returns the number of workers being tracked.
func (a *ProgressAggregator) NumWorkers() int {
	return a.numWorkers
}

// IsMultiWorker returns true if tracking more than one worker.
func (a *ProgressAggregator) IsMultiWorker() bool {
	return a.numWorkers > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
