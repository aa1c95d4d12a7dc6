package utils

import (
	"math/big"

	"golang.org/x/exp/constraints"
)

// GetIntegerConstraints takes a given signed indicator and bit length for a prospective integer and determines the
// minimum/maximum value boundaries. Minimums and maximums are inclusive.
func GetIntegerConstraints(signed bool, bitLength int) (*big.Int, *big.Int) {
	var min, max *big.Int
	if signed {
		// max = 2^(bitLen - 1) - 1, min = -(2^(bitLen - 1))
		max = new(big.Int).Lsh(big.NewInt(1), uint(bitLength-1))
		max.Sub(max, big.NewInt(1))
		min = new(big.Int).Neg(max)
		min.Sub(min, big.NewInt(1))
	} else {
		// max = 2^bitLen - 1
		max = new(big.Int).Lsh(big.NewInt(1), uint(bitLength))
		max.Sub(max, big.NewInt(1))
		min = big.NewInt(0)
	}
	return min, max
}

// CeilDiv returns x / y rounded up. Both values must be non-negative and y must be nonzero.
func CeilDiv(x *big.Int, y *big.Int) *big.Int {
	quotient, remainder := new(big.Int).QuoRem(x, y, new(big.Int))
	if remainder.Sign() != 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return quotient
}

// Min returns the smaller of two integers.
func Min[T constraints.Integer](x T, y T) T {
	if x < y {
		return x
	}
	return y
}
