package factorial

import (
	"math/big"
	"math/bits"

	"github.com/agbru/factcalc/internal/progress"
)

// StopFunc reports whether a worker should give up. It is polled before
// every big multiplication and must be safe for concurrent use.
type StopFunc func() bool

// computePartial multiplies every integer of r into an accumulator starting
// at 1. Consecutive factors are packed into a single machine word while
// their product fits, so the big multiplication and the stop poll happen
// once per word instead of once per factor.
//
// The returned flag is false when stop fired before the range was consumed.
// The partial product is still returned in that case but callers must not
// use it in a result.
func computePartial(r Range, stop StopFunc, report progress.ProgressCallback) (*big.Int, bool) {
	acc := newAccumulator()
	total := r.Len()
	word := uint64(1)
	lastReported := 0.0

	for i := int64(0); i < total; i++ {
		k := uint64(r.Start + i)
		hi, lo := bits.Mul64(word, k)
		if hi == 0 {
			word = lo
			continue
		}
		if stop != nil && stop() {
			return acc.result(), false
		}
		acc.mulWord(word)
		word = k

		if report != nil {
			if p := progress.Fraction(i, total); progress.ShouldReport(lastReported, p, progress.ReportThreshold) {
				report(p)
				lastReported = p
			}
		}
	}

	if word != 1 {
		if stop != nil && stop() {
			return acc.result(), false
		}
		acc.mulWord(word)
	}
	if report != nil {
		report(1.0)
	}
	return acc.result(), true
}
