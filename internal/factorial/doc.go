// Package factorial implements a bounded-time parallel factorial engine.
//
// A computation of N! splits [1, N] into contiguous ranges, multiplies each
// range on its own worker, folds the partial products in range order and
// resolves to exactly one Outcome: the factorial value, a timeout, an abort
// requested by the caller, or a failure raised inside a worker.
//
// The deadline is fixed when the computation starts and is never extended.
// Workers never block; they poll a stop signal between big multiplications,
// so cancellation latency is bounded by one machine-word batch of factors.
//
// Two concurrency strategies are available. StrategyStructured runs the
// workers in an errgroup scope bound to the deadline. StrategyCoordinated
// counts finished workers under a mutex and waits on a condition variable
// that is broadcast when the deadline passes or the caller aborts.
package factorial
