package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape sequences used when rendering error
// messages. A nil provider renders plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

// HandleCalculationError prints a human-readable description of err and
// returns the exit code matching its class.
//
// Parameters:
//   - err: The error to report. A nil error yields ExitSuccess.
//   - duration: How long the computation ran before failing (0 if unknown).
//   - out: Destination of the message.
//   - colors: Color provider, may be nil.
//
// Returns:
//   - int: The process exit code.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = plainColors{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	var (
		validationErr ValidationError
		configErr     ConfigError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &configErr):
		fmt.Fprintf(out, "%sInvalid input: %v%s\n", colors.Red(), err, colors.Reset())
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sStatus: Timeout. %v%s%s\n", colors.Yellow(), err, suffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Aborted%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "%sStatus: Failure%s. %v%s\n", colors.Red(), suffix, err, colors.Reset())
		return ExitErrorGeneric
	}
}
