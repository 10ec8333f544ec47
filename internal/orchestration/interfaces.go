package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/progress"
)

// Report is everything a front end needs to present a finished computation.
type Report struct {
	// Outcome is the terminal result of the computation.
	Outcome factorial.Outcome
	// Memory is the allocation activity observed during the computation.
	Memory metrics.MemoryDelta
	// GCSuspended reports whether the collector was suspended for the run.
	GCSuspended bool
	// Timeout is the effective time limit the computation ran under.
	Timeout time.Duration
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose   bool
	Details   bool
	ShowValue bool
}

// ProgressReporter defines the interface for displaying computation progress.
// The orchestration layer only produces updates; implementations decide how
// to render them (spinner, progress bar, nothing at all).
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed and then
	// calls wg.Done. It is started on its own goroutine.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates from workers.
	//   - numWorkers: The number of workers being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numWorkers int, out io.Writer) {
	f(wg, progressChan, numWorkers, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and in tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports a failed computation and returns its exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

// ResultPresenter renders computation results.
type ResultPresenter interface {
	ErrorHandler
	// PresentResult displays a successful computation.
	PresentResult(report Report, opts PresentationOptions, out io.Writer)
}
