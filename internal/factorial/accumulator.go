//go:build !gmp

package factorial

import "math/big"

// accumulator holds a running product using math/big.
type accumulator struct {
	z big.Int
	w big.Int
}

func newAccumulator() *accumulator {
	a := &accumulator{}
	a.z.SetInt64(1)
	return a
}

func (a *accumulator) mulWord(w uint64) {
	a.w.SetUint64(w)
	a.z.Mul(&a.z, &a.w)
}

func (a *accumulator) result() *big.Int {
	return &a.z
}

// Backend names the arithmetic backend compiled into the binary.
const Backend = "math/big"
