package factorial

const (
	// DefaultMinParallelArgument is the smallest argument computed with more
	// than one worker. Below it, goroutine and combination overhead outweigh
	// the parallel speedup.
	DefaultMinParallelArgument = 20

	// TimeoutMessage is the rendering of a timed-out computation.
	TimeoutMessage = "Computation timed out"

	// AbortedMessage is the rendering of an aborted computation.
	AbortedMessage = "Computation was aborted"

	// failedPrefix precedes the cause of a failed computation.
	failedPrefix = "Computation failed: "

	tracerName = "github.com/agbru/factcalc/internal/factorial"
)
