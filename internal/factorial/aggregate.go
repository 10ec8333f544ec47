package factorial

import "math/big"

// Combine multiplies partials in order into a fresh integer starting at 1.
// stop is polled before each multiplication; the flag is false when the
// fold was cut short, in which case the returned value is incomplete.
// Nil partials are skipped.
func Combine(partials []*big.Int, stop StopFunc) (*big.Int, bool) {
	result := big.NewInt(1)
	for _, p := range partials {
		if stop != nil && stop() {
			return result, false
		}
		if p == nil {
			continue
		}
		result.Mul(result, p)
	}
	return result, true
}
