package core

import "math"

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// SanitizeInto copies src into dst, replacing non-finite samples with 0, and
// zero-fills any tail of dst that src does not cover. It returns the number
// of copied samples and the RMS level of the copied part.
func SanitizeInto(dst []float64, src []float32) (n int, rms float64) {
	n = len(dst)
	if len(src) < n {
		n = len(src)
	}

	sumSquares := 0.0
	for i := 0; i < n; i++ {
		s := Sanitize(float64(src[i]))
		dst[i] = s
		sumSquares += s * s
	}
	Zero(dst[n:])

	if n == 0 {
		return 0, 0
	}

	return n, math.Sqrt(sumSquares / float64(n))
}
