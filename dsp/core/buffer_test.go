package core

import (
	"math"
	"testing"
)

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}
}

func TestSanitizeIntoReplacesNonFinite(t *testing.T) {
	dst := make([]float64, 4)
	src := []float32{float32(math.NaN()), 1, float32(math.Inf(1)), -1}

	n, rms := SanitizeInto(dst, src)
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}

	want := []float64{0, 1, 0, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}

	if !NearlyEqual(rms, math.Sqrt(0.5), 1e-12) {
		t.Fatalf("rms = %v, want %v", rms, math.Sqrt(0.5))
	}
}

func TestSanitizeIntoShortBlockZeroFillsTail(t *testing.T) {
	dst := []float64{9, 9, 9, 9}

	n, rms := SanitizeInto(dst, []float32{0.5, 0.5})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if rms != 0.5 {
		t.Fatalf("rms = %v, want 0.5", rms)
	}
	if dst[2] != 0 || dst[3] != 0 {
		t.Fatalf("tail not zeroed: %v", dst)
	}
}

func TestSanitizeIntoEmpty(t *testing.T) {
	dst := make([]float64, 2)
	n, rms := SanitizeInto(dst, nil)
	if n != 0 || rms != 0 {
		t.Fatalf("n=%d rms=%v, want 0, 0", n, rms)
	}
}
