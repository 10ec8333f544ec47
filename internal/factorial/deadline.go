package factorial

import "time"

// Deadline is the absolute instant at which a computation times out. It is
// computed once at request start and shared read-only by every participant.
type Deadline struct {
	at time.Time
}

// NewDeadline returns the deadline start+timeout.
func NewDeadline(start time.Time, timeout time.Duration) Deadline {
	return Deadline{at: start.Add(timeout)}
}

// At returns the absolute instant.
func (d Deadline) At() time.Time { return d.at }

// Remaining returns the time left before expiry, never negative.
func (d Deadline) Remaining() time.Duration {
	if r := time.Until(d.at); r > 0 {
		return r
	}
	return 0
}

// Expired reports whether the deadline has been reached.
func (d Deadline) Expired() bool {
	return !time.Now().Before(d.at)
}
