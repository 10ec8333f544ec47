package factorial

import (
	"context"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/factcalc/internal/parallel"
	"github.com/agbru/factcalc/internal/progress"
)

// Engine runs factorial computations. An Engine holds only configuration
// and may be shared by concurrent callers.
type Engine struct {
	strategy    Strategy
	workers     int
	minParallel int
	progress    *progress.ProgressSubject
	logger      zerolog.Logger
	tracer      trace.Tracer
	available   func() int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the concurrency strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s != "" {
			e.strategy = s
		}
	}
}

// WithWorkers overrides the host parallelism used for large arguments.
// Zero keeps automatic detection.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.workers = n
		}
	}
}

// WithMinParallelArgument sets the smallest argument that is split across
// several workers.
func WithMinParallelArgument(n int) Option {
	return func(e *Engine) { e.minParallel = n }
}

// WithProgress attaches a progress subject. Each worker receives a callback
// frozen from it when the computation starts.
func WithProgress(s *progress.ProgressSubject) Option {
	return func(e *Engine) { e.progress = s }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New returns an Engine with the structured strategy, automatic worker
// count, no progress reporting and a no-op logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		strategy:    StrategyStructured,
		minParallel: DefaultMinParallelArgument,
		logger:      zerolog.Nop(),
		tracer:      otel.Tracer(tracerName),
		available:   parallel.AvailableParallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the configured strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// WorkersFor returns the number of workers a computation of argument would
// use on this engine.
func (e *Engine) WorkersFor(argument int64) int {
	available := e.workers
	if available == 0 {
		available = e.available()
	}
	return WorkerCount(argument, available, e.minParallel)
}

// Compute runs one computation and blocks until it resolves. Cancelling ctx
// aborts the computation. The only error returned is a validation error for
// a negative argument or a non-positive timeout, in which case no worker is
// started; every other result, including timeouts, is an Outcome.
func (e *Engine) Compute(ctx context.Context, req Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	return e.run(ctx, req, ulid.Make().String()), nil
}

// ComputeFactorial computes argument! within timeoutMillis using a default
// engine.
func ComputeFactorial(ctx context.Context, argument, timeoutMillis int64) (Outcome, error) {
	return New().Compute(ctx, NewRequest(argument, timeoutMillis))
}

func (e *Engine) run(ctx context.Context, req Request, id string) Outcome {
	start := time.Now()
	deadline := NewDeadline(start, req.Timeout)
	ranges := Partition(req.Argument, e.WorkersFor(req.Argument))

	ctx, span := e.tracer.Start(ctx, "factorial.compute", trace.WithAttributes(
		attribute.String("computation.id", id),
		attribute.Int64("argument", req.Argument),
		attribute.Int("workers", len(ranges)),
		attribute.String("strategy", string(e.strategy)),
	))
	defer span.End()

	log := e.logger.With().Str("id", id).Int64("argument", req.Argument).Logger()
	log.Debug().
		Int("workers", len(ranges)).
		Str("strategy", string(e.strategy)).
		Dur("timeout", req.Timeout).
		Msg("computation started")

	runCtx, cancel := context.WithDeadline(ctx, deadline.At())
	defer cancel()

	ws := newWorkSet(ranges, deadline, e.progress, e.tracer)
	var res runResult
	switch e.strategy {
	case StrategyCoordinated:
		res = runCoordinated(runCtx, ws)
	default:
		res = runStructured(runCtx, ws)
	}

	out := resolve(ctx, deadline, ws.partials, res)
	out.ID = id
	out.Argument = req.Argument
	out.Workers = len(ranges)
	out.Elapsed = time.Since(start)

	span.SetAttributes(attribute.String("outcome", out.Kind.String()))
	if out.Kind == KindFailed {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	ev := log.Info()
	if out.Kind == KindFailed {
		ev = log.Error().Err(out.Err)
	}
	ev.Str("outcome", out.Kind.String()).Dur("elapsed", out.Elapsed).Msg("computation finished")
	return out
}

// resolve applies the outcome precedence Aborted > Failed > Timeout >
// Factorial. Partials are read only when res reports every worker complete,
// and abort and timeout are checked again after the combination.
func resolve(ctx context.Context, deadline Deadline, partials []*big.Int, res runResult) Outcome {
	if ctx.Err() != nil {
		return Outcome{Kind: KindAborted}
	}
	if res.fault != nil {
		return Outcome{Kind: KindFailed, Err: res.fault}
	}
	if !res.complete || deadline.Expired() {
		return Outcome{Kind: KindTimeout}
	}

	value, ok := Combine(partials, func() bool {
		return ctx.Err() != nil || deadline.Expired()
	})
	switch {
	case ctx.Err() != nil:
		return Outcome{Kind: KindAborted}
	case !ok || deadline.Expired():
		return Outcome{Kind: KindTimeout}
	}
	return Outcome{Kind: KindFactorial, Value: value}
}
