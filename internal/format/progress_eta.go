package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates so that a stalled start does not print absurd values.
const maxETA = 24 * time.Hour

// ProgressState tracks the progress of a fixed set of workers.
// It is not safe for concurrent use; a single display goroutine owns it.
type ProgressState struct {
	progresses []float64
	numWorkers int
}

// NewProgressState creates a state for n workers, all at zero.
func NewProgressState(n int) *ProgressState {
	if n < 0 {
		n = 0
	}
	return &ProgressState{progresses: make([]float64, n), numWorkers: n}
}

// Update sets the progress of worker i. Out-of-range indices are ignored
// and values are clamped to [0, 1].
func (s *ProgressState) Update(i int, v float64) {
	if i < 0 || i >= len(s.progresses) {
		return
	}
	s.progresses[i] = clamp01(v)
}

// CalculateAverage returns the mean progress across all workers.
func (s *ProgressState) CalculateAverage() float64 {
	if s.numWorkers == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numWorkers)
}

// Worker returns the progress of worker i, or 0 for an unknown index.
func (s *ProgressState) Worker(i int) float64 {
	if i < 0 || i >= len(s.progresses) {
		return 0
	}
	return s.progresses[i]
}

// ProgressWithETA extends ProgressState with a rate estimate.
type ProgressWithETA struct {
	*ProgressState
	numWorkers   int
	progressRate float64 // average progress per second
	startTime    time.Time
}

// NewProgressWithETA creates a tracker for n workers starting now.
func NewProgressWithETA(n int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(n),
		numWorkers:    n,
		startTime:     time.Now(),
	}
}

// UpdateWithETA records a sample and returns the average progress and the
// estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(i int, v float64) (float64, time.Duration) {
	p.Update(i, v)
	avg := p.CalculateAverage()
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 && avg > 0 {
		p.progressRate = avg / elapsed
	}
	return avg, p.GetETA()
}

// GetETA estimates the remaining time from the current rate. It returns 0
// when there is not enough data yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	avg := p.CalculateAverage()
	if p.progressRate <= 0 || avg <= 0 {
		return 0
	}
	seconds := (1 - avg) / p.progressRate
	if seconds > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(seconds * float64(time.Second))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration { return time.Since(p.startTime) }

// ProgressBar renders a bar of the given length using block characters.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.00% ETA: 10s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	etaText := FormatETA(eta)
	if progress >= 1 {
		etaText = "done"
	}
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, etaText)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
