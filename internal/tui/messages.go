package tui

import (
	"time"

	"github.com/agbru/factcalc/internal/orchestration"
)

// Every message produced on behalf of a computation carries the generation
// it belongs to. Restarting bumps the model's generation so that late
// messages from an aborted run are dropped.

// WorkersMsg announces how many workers the current run uses.
type WorkersMsg struct {
	Count      int
	Generation uint64
}

// ProgressMsg carries a progress update from one worker.
type ProgressMsg struct {
	WorkerIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// OutcomeMsg carries a successful computation. Digits and Preview are
// rendered off the UI goroutine since stringifying a large value is costly.
type OutcomeMsg struct {
	Report     orchestration.Report
	Digits     int
	Preview    string
	Generation uint64
}

// ErrorMsg carries a timed out, aborted or failed computation.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// ComputationCompleteMsg is returned by the command that ran the computation.
type ComputationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg is sent when the session context ends.
type ContextCancelledMsg struct {
	Err error
}
