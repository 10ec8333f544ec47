package orchestration

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/factorial/memory"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/progress"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. Updates beyond the buffer are dropped rather than
// blocking workers.
const ProgressBufferMultiplier = 5

// Executor runs computations described by an AppConfig.
// The zero value runs silently with no metrics.
type Executor struct {
	// Reporter displays progress. Nil selects NullProgressReporter.
	Reporter ProgressReporter
	// Recorder receives in-flight and outcome metrics. May be nil.
	Recorder *metrics.Recorder
	// Logger receives engine and GC lifecycle events.
	Logger zerolog.Logger
	// Observers are registered alongside the reporter channel.
	Observers []progress.ProgressObserver
}

// Execute computes cfg.N! within cfg.Timeout. Cancelling ctx aborts the
// computation. The returned error is non-nil only when the request is
// rejected before any worker starts.
//
// Parameters:
//   - ctx: The caller context; its cancellation yields an Aborted outcome.
//   - cfg: The application configuration (argument, timeout, engine knobs).
//   - out: The writer handed to the progress reporter.
//
// Returns:
//   - Report: The outcome and resource usage of the run.
//   - error: A validation error, if the request was invalid.
func (x Executor) Execute(ctx context.Context, cfg config.AppConfig, out io.Writer) (Report, error) {
	subject := progress.NewProgressSubject()
	opts := append(cfg.EngineOptions(),
		factorial.WithProgress(subject),
		factorial.WithLogger(x.Logger),
	)
	engine := factorial.New(opts...)
	workers := engine.WorkersFor(cfg.N)

	progressChan := make(chan progress.ProgressUpdate, workers*ProgressBufferMultiplier)
	channelObserver := progress.NewChannelObserver(progressChan)
	subject.Register(channelObserver)
	for _, o := range x.Observers {
		subject.Register(o)
	}

	reporter := x.Reporter
	if reporter == nil {
		reporter = NullProgressReporter{}
	}
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, workers, out)

	mode, err := memory.ParseGCMode(cfg.GCMode)
	if err != nil {
		mode = memory.GCModeAuto
	}
	gc := memory.NewGCController(mode, cfg.N)
	gc.SetLogger(x.Logger)

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()

	var finished func()
	if x.Recorder != nil {
		finished = x.Recorder.ComputationStarted()
	}
	gc.Begin()
	outcome, err := engine.Compute(ctx, factorial.Request{Argument: cfg.N, Timeout: cfg.Timeout})
	gc.End()
	if finished != nil {
		finished()
	}

	channelObserver.Close()
	displayWg.Wait()

	if err != nil {
		return Report{}, err
	}
	if x.Recorder != nil {
		x.Recorder.RecordOutcome(outcome)
	}
	return Report{
		Outcome:     outcome,
		Memory:      collector.Snapshot().Since(before),
		GCSuspended: gc.Active(),
		Timeout:     cfg.Timeout,
	}, nil
}

// PresentReport displays report through presenter and returns the exit code
// matching its outcome.
//
// Parameters:
//   - report: The finished computation.
//   - opts: Display options.
//   - presenter: The result presenter for display formatting.
//   - out: The io.Writer for the report.
//
// Returns:
//   - int: ExitSuccess for a value, otherwise the code of the outcome class.
func PresentReport(report Report, opts PresentationOptions, presenter ResultPresenter, out io.Writer) int {
	if report.Outcome.Kind == factorial.KindFactorial {
		presenter.PresentResult(report, opts, out)
		return apperrors.ExitSuccess
	}
	return presenter.HandleError(report.Outcome.AsError(report.Timeout), report.Outcome.Elapsed, out)
}

// ExitCode maps an outcome onto the process exit code without printing.
func ExitCode(o factorial.Outcome) int {
	switch o.Kind {
	case factorial.KindFactorial:
		return apperrors.ExitSuccess
	case factorial.KindTimeout:
		return apperrors.ExitErrorTimeout
	case factorial.KindAborted:
		return apperrors.ExitErrorCanceled
	default:
		return apperrors.ExitErrorGeneric
	}
}
