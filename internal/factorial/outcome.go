package factorial

import (
	"context"
	"math/big"
	"time"

	apperrors "github.com/agbru/factcalc/internal/errors"
)

// OutcomeKind tags the terminal state of a computation.
type OutcomeKind int

const (
	// KindFactorial carries the computed value.
	KindFactorial OutcomeKind = iota
	// KindTimeout means the deadline passed before a value was produced.
	KindTimeout
	// KindAborted means the caller cancelled the computation.
	KindAborted
	// KindFailed means a worker raised a fault.
	KindFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case KindFactorial:
		return "factorial"
	case KindTimeout:
		return "timeout"
	case KindAborted:
		return "aborted"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the single terminal result of a computation.
type Outcome struct {
	Kind OutcomeKind
	// Value is set only for KindFactorial.
	Value *big.Int
	// Err is set only for KindFailed.
	Err error

	ID       string
	Argument int64
	Workers  int
	Elapsed  time.Duration
}

// String renders the outcome the way callers display it: the decimal value,
// or a fixed message for the other kinds.
func (o Outcome) String() string {
	switch o.Kind {
	case KindFactorial:
		if o.Value == nil {
			return "1"
		}
		return o.Value.String()
	case KindTimeout:
		return TimeoutMessage
	case KindAborted:
		return AbortedMessage
	case KindFailed:
		if o.Err == nil {
			return failedPrefix + "unknown error"
		}
		return failedPrefix + o.Err.Error()
	default:
		return o.Kind.String()
	}
}

// AsError converts non-value outcomes into the application error taxonomy
// so they can be mapped onto exit codes. A Factorial outcome yields nil.
func (o Outcome) AsError(limit time.Duration) error {
	switch o.Kind {
	case KindTimeout:
		return apperrors.TimeoutError{Operation: "factorial", Limit: limit}
	case KindAborted:
		return apperrors.WrapError(context.Canceled, "factorial %d", o.Argument)
	case KindFailed:
		return apperrors.CalculationError{Worker: -1, Cause: o.Err}
	default:
		return nil
	}
}
