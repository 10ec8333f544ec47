package parallel

import (
	"fmt"
	"sync"

	apperrors "github.com/agbru/factcalc/internal/errors"
)

// ErrorCollector records the first non-nil error reported by a set of
// goroutines. The zero value is ready to use.
type ErrorCollector struct {
	once sync.Once
	mu   sync.Mutex
	err  error
}

// SetError stores err if it is the first non-nil error seen. Nil errors are
// ignored so that callers can forward results unconditionally.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
	})
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Recover converts a panic in the calling goroutine into a
// CalculationError tagged with the worker index and hands it to sink.
// It must be invoked directly via defer.
func Recover(worker int, sink func(error)) {
	if r := recover(); r != nil {
		sink(apperrors.CalculationError{
			Worker: worker,
			Cause:  fmt.Errorf("panic: %v", r),
		})
	}
}
