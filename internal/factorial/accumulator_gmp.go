//go:build gmp

package factorial

import (
	"math/big"

	"github.com/ncw/gmp"
)

// accumulator holds a running product in GMP memory. The value is copied
// into a math/big integer only when the worker publishes its partial.
type accumulator struct {
	z *gmp.Int
	w *gmp.Int
}

func newAccumulator() *accumulator {
	return &accumulator{z: gmp.NewInt(1), w: new(gmp.Int)}
}

func (a *accumulator) mulWord(w uint64) {
	a.w.SetUint64(w)
	a.z.Mul(a.z, a.w)
}

func (a *accumulator) result() *big.Int {
	return new(big.Int).SetBytes(a.z.Bytes())
}

// Backend names the arithmetic backend compiled into the binary.
const Backend = "gmp"
