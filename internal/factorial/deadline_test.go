package factorial

import (
	"testing"
	"time"
)

func TestDeadline(t *testing.T) {
	t.Parallel()

	t.Run("future deadline", func(t *testing.T) {
		t.Parallel()
		d := NewDeadline(time.Now(), time.Hour)
		if d.Expired() {
			t.Error("deadline one hour ahead should not be expired")
		}
		if r := d.Remaining(); r <= 0 || r > time.Hour {
			t.Errorf("Remaining() = %v, want (0, 1h]", r)
		}
	})

	t.Run("past deadline", func(t *testing.T) {
		t.Parallel()
		d := NewDeadline(time.Now().Add(-time.Second), time.Millisecond)
		if !d.Expired() {
			t.Error("deadline in the past should be expired")
		}
		if r := d.Remaining(); r != 0 {
			t.Errorf("Remaining() = %v, want 0", r)
		}
	})

	t.Run("expired at the exact instant", func(t *testing.T) {
		t.Parallel()
		start := time.Now().Add(-time.Minute)
		d := NewDeadline(start, time.Minute)
		if !d.At().Equal(start.Add(time.Minute)) {
			t.Errorf("At() = %v, want %v", d.At(), start.Add(time.Minute))
		}
		if !d.Expired() {
			t.Error("deadline equal to now must count as expired")
		}
	})
}
