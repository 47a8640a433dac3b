//go:build fastmath

package spectrum

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// mathPow computes x^p as exp(p*ln(x)) using fast approximations.
// Exact for p == 2, the default response exponent.
func mathPow(x, p float64) float64 {
	if x <= 0 {
		return 0
	}
	if p == 2 {
		return x * x
	}
	if math.IsInf(x, 1) {
		return x
	}
	return approx.FastExp(p * approx.FastLog(x))
}
