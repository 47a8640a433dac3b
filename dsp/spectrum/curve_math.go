//go:build !fastmath

package spectrum

import "math"

// mathPow computes x^p using standard library math.
func mathPow(x, p float64) float64 {
	return math.Pow(x, p)
}
