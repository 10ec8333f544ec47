package factorial

import (
	"time"

	apperrors "github.com/agbru/factcalc/internal/errors"
)

// Request is an immutable computation request.
type Request struct {
	Argument int64
	Timeout  time.Duration
}

// NewRequest builds a request from an argument and a timeout expressed in
// milliseconds.
func NewRequest(argument, timeoutMillis int64) Request {
	return Request{Argument: argument, Timeout: time.Duration(timeoutMillis) * time.Millisecond}
}

// Validate rejects negative arguments and non-positive timeouts.
func (r Request) Validate() error {
	if r.Argument < 0 {
		return apperrors.ValidationError{Field: "argument", Message: "must be non-negative"}
	}
	if r.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be greater than zero"}
	}
	return nil
}
