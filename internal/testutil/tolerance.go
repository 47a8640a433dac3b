package testutil

import (
	"fmt"
	"math"
	"testing"
)

// CheckNearlyEqual reports the first index where got and want differ by more
// than eps, or a length mismatch.
func CheckNearlyEqual(got, want []float64, eps float64) error {
	if len(got) != len(want) {
		return fmt.Errorf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); !(d <= eps) {
			return fmt.Errorf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], d, eps)
		}
	}
	return nil
}

// CheckInRange reports the first value that is non-finite or outside
// [lo, hi].
func CheckInRange(data []float64, lo, hi float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("index %d: non-finite value %v", i, v)
		}
		if v < lo || v > hi {
			return fmt.Errorf("index %d: %v outside [%v, %v]", i, v, lo, hi)
		}
	}
	return nil
}

// RequireSliceNearlyEqual fails t unless got matches want within eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if err := CheckNearlyEqual(got, want, eps); err != nil {
		t.Fatal(err)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	if err := CheckInRange(data, math.Inf(-1), math.Inf(1)); err != nil {
		t.Fatal(err)
	}
}

// RequireInRange fails t unless every element is finite and within
// [lo, hi].
func RequireInRange(t testing.TB, data []float64, lo, hi float64) {
	t.Helper()
	if err := CheckInRange(data, lo, hi); err != nil {
		t.Fatal(err)
	}
}
