package progress

import (
	"sync"

	"github.com/agbru/factcalc/internal/logging"
)

// ReportThreshold is the minimum progress delta between two reports from the
// same worker. Completion (1.0) is always reported.
const ReportThreshold = 0.01

// ProgressUpdate is a progress sample emitted on behalf of one worker.
type ProgressUpdate struct {
	// WorkerIndex identifies the range the worker is multiplying.
	WorkerIndex int
	// Value is the fraction of the range consumed, in [0, 1].
	Value float64
}

// ProgressCallback receives the fraction of work done by a single worker.
type ProgressCallback func(progress float64)

// ProgressObserver is notified of progress for any worker.
type ProgressObserver interface {
	Update(workerIndex int, progress float64)
}

// ProgressSubject fans progress out to registered observers.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

// NewProgressSubject returns an empty subject.
func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register adds an observer. Nil observers are ignored.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Freeze snapshots the current observer list into a callback bound to
// workerIndex. Observers registered afterwards are not notified through it,
// which keeps the hot path lock-free.
func (s *ProgressSubject) Freeze(workerIndex int) ProgressCallback {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	snapshot := make([]ProgressObserver, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()
	if len(snapshot) == 0 {
		return nil
	}
	return func(progress float64) {
		for _, o := range snapshot {
			o.Update(workerIndex, progress)
		}
	}
}

// ChannelObserver forwards updates onto a channel. Sends never block: when
// the consumer falls behind, samples are dropped. Workers may outlive the
// computation that started them, so the observer owns closing the channel
// and ignores updates that arrive after Close.
type ChannelObserver struct {
	mu     sync.RWMutex
	ch     chan<- ProgressUpdate
	closed bool
}

// NewChannelObserver returns an observer writing to ch.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// Update implements ProgressObserver.
func (o *ChannelObserver) Update(workerIndex int, progress float64) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.ch == nil || o.closed {
		return
	}
	select {
	case o.ch <- ProgressUpdate{WorkerIndex: workerIndex, Value: clamp(progress)}:
	default:
	}
}

// Close closes the underlying channel. Later calls are no-ops.
func (o *ChannelObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.ch == nil {
		return
	}
	o.closed = true
	close(o.ch)
}

// LoggingObserver writes progress to a logger whenever a worker advances by
// at least threshold.
type LoggingObserver struct {
	logger    logging.Logger
	threshold float64

	mu   sync.Mutex
	last map[int]float64
}

// NewLoggingObserver returns a LoggingObserver. A non-positive threshold
// selects ReportThreshold.
func NewLoggingObserver(logger logging.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = ReportThreshold
	}
	return &LoggingObserver{logger: logger, threshold: threshold, last: make(map[int]float64)}
}

// Update implements ProgressObserver.
func (o *LoggingObserver) Update(workerIndex int, progress float64) {
	o.mu.Lock()
	prev, seen := o.last[workerIndex]
	if seen && !ShouldReport(prev, progress, o.threshold) {
		o.mu.Unlock()
		return
	}
	o.last[workerIndex] = progress
	o.mu.Unlock()

	o.logger.Debug("worker progress",
		logging.Int("worker", workerIndex),
		logging.Float64("progress", progress))
}

// ShouldReport tells whether current is far enough from last to be worth
// reporting. Reaching 1.0 always qualifies.
func ShouldReport(last, current, threshold float64) bool {
	if current >= 1.0 && last < 1.0 {
		return true
	}
	return current-last >= threshold
}

// Fraction returns done/total clamped to [0, 1]. An empty total counts as
// complete.
func Fraction(done, total int64) float64 {
	if total <= 0 {
		return 1.0
	}
	return clamp(float64(done) / float64(total))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
