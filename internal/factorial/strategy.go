package factorial

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/parallel"
	"github.com/agbru/factcalc/internal/progress"
)

// Strategy selects how the worker set is run and awaited.
type Strategy string

const (
	// StrategyStructured runs workers in an errgroup scope bound to the
	// deadline and the caller's context.
	StrategyStructured Strategy = "structured"
	// StrategyCoordinated counts finished workers under a mutex and waits on
	// a condition variable.
	StrategyCoordinated Strategy = "coordinated"
)

// Strategies lists the accepted strategy names.
var Strategies = []Strategy{StrategyStructured, StrategyCoordinated}

// ParseStrategy resolves a strategy name, case-insensitively. The empty
// string selects StrategyStructured.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyStructured:
		return StrategyStructured, nil
	case StrategyCoordinated:
		return StrategyCoordinated, nil
	default:
		return "", apperrors.ValidationError{
			Field:   "strategy",
			Message: fmt.Sprintf("unknown strategy %q (want structured or coordinated)", name),
		}
	}
}

// workSet is the shared state of one run: the ranges, one write-once slot
// per range and the per-worker progress callbacks. Slot i is written only by
// worker i and read only once every worker has finished.
type workSet struct {
	ranges    []Range
	partials  []*big.Int
	completed []bool
	reporters []progress.ProgressCallback
	deadline  Deadline
	tracer    trace.Tracer
	faults    parallel.ErrorCollector
}

func newWorkSet(ranges []Range, deadline Deadline, subject *progress.ProgressSubject, tracer trace.Tracer) *workSet {
	ws := &workSet{
		ranges:    ranges,
		partials:  make([]*big.Int, len(ranges)),
		completed: make([]bool, len(ranges)),
		reporters: make([]progress.ProgressCallback, len(ranges)),
		deadline:  deadline,
		tracer:    tracer,
	}
	for i := range ranges {
		ws.reporters[i] = subject.Freeze(i)
	}
	return ws
}

// stopSignal turns context cancellation into a lock-free flag that workers
// can poll at a high rate. The deadline is also checked directly so that a
// late timer never lets a worker run past it.
//
// The watch on ctx is never released early: a worker may outlive the
// strategy call that started it, and it must still see the flag once ctx is
// done. Both strategies cancel ctx when they return, so the watch ends with
// the run.
type stopSignal struct {
	flag     atomic.Bool
	deadline Deadline
}

func newStopSignal(ctx context.Context, deadline Deadline) *stopSignal {
	s := &stopSignal{deadline: deadline}
	context.AfterFunc(ctx, func() { s.flag.Store(true) })
	return s
}

func (s *stopSignal) stop() bool {
	return s.flag.Load() || s.deadline.Expired()
}

// runWorker computes range i and publishes it into its slot.
func (ws *workSet) runWorker(ctx context.Context, i int, stop StopFunc) {
	r := ws.ranges[i]
	_, span := ws.tracer.Start(ctx, "factorial.partial", trace.WithAttributes(
		attribute.Int("worker", i),
		attribute.Int64("range.start", r.Start),
		attribute.Int64("range.end", r.End),
	))
	defer span.End()

	p, ok := computePartial(r, stop, ws.reporters[i])
	ws.partials[i] = p
	ws.completed[i] = ok
	if !ok {
		span.SetStatus(codes.Error, "stopped")
	}
}

func (ws *workSet) allCompleted() bool {
	for _, ok := range ws.completed {
		if !ok {
			return false
		}
	}
	return true
}

// runResult is what a strategy reports back to the engine.
type runResult struct {
	// complete is true only when every worker finished its whole range.
	complete bool
	// fault is the first error raised by a worker, if any.
	fault error
}

// runStructured launches one errgroup task per range. The group context is
// cancelled when a worker fails, stopping the others. The caller is released
// as soon as either the group finishes or ctx is done; stragglers are left to
// observe the stop signal on their own.
func runStructured(ctx context.Context, ws *workSet) runResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	sig := newStopSignal(gctx, ws.deadline)

	for i := range ws.ranges {
		g.Go(func() (err error) {
			defer parallel.Recover(i, func(e error) {
				ws.faults.SetError(e)
				err = e
			})
			ws.runWorker(gctx, i, sig.stop)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return runResult{complete: ws.allCompleted(), fault: ws.faults.Err()}
	case <-ctx.Done():
		return runResult{fault: ws.faults.Err()}
	}
}

// runCoordinated starts one goroutine per range and waits on a condition
// variable until every worker has finished or the run is stopped. The stop
// flag is raised by context.AfterFunc when the deadline passes, the caller
// aborts, or a worker fails.
func runCoordinated(ctx context.Context, ws *workSet) runResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		cond     = sync.NewCond(&mu)
		finished int
		stopped  bool
	)
	release := context.AfterFunc(ctx, func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		cond.Broadcast()
	})
	defer release()

	sig := newStopSignal(ctx, ws.deadline)

	n := len(ws.ranges)
	for i := 0; i < n; i++ {
		go func() {
			defer func() {
				mu.Lock()
				finished++
				mu.Unlock()
				cond.Broadcast()
			}()
			defer parallel.Recover(i, func(e error) {
				ws.faults.SetError(e)
				cancel()
			})
			ws.runWorker(ctx, i, sig.stop)
		}()
	}

	mu.Lock()
	for finished < n && !stopped {
		cond.Wait()
	}
	allFinished := finished == n
	mu.Unlock()

	if !allFinished {
		return runResult{fault: ws.faults.Err()}
	}
	return runResult{complete: ws.allCompleted(), fault: ws.faults.Err()}
}
