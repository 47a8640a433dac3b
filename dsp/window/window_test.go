package window

import (
	"math"
	"testing"
)

func TestGenerateSymmetricEndpoints(t *testing.T) {
	tests := []struct {
		typ  Type
		edge float64
		peak float64
	}{
		{TypeRectangular, 1, 1},
		{TypeHann, 0, 1},
		{TypeHamming, 0.08, 1},
		{TypeBlackman, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			w := Generate(tt.typ, 9)
			if math.Abs(w[0]-tt.edge) > 1e-12 || math.Abs(w[8]-tt.edge) > 1e-12 {
				t.Fatalf("edges = %v, %v; want %v", w[0], w[8], tt.edge)
			}
			if math.Abs(w[4]-tt.peak) > 1e-12 {
				t.Fatalf("center = %v, want %v", w[4], tt.peak)
			}
		})
	}
}

func TestGeneratePeriodic(t *testing.T) {
	w := Generate(TypeHann, 8, WithPeriodic())
	if w[0] != 0 {
		t.Fatalf("w[0] = %v, want 0", w[0])
	}
	// Periodic Hann peaks at n = N/2.
	if math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("w[4] = %v, want 1", w[4])
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("expected nil, got %v", w)
	}
	if _, err := New(TypeHann, -1); err == nil {
		t.Fatal("expected error for negative size")
	}
	if _, err := New(Type(99), 16); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestParse(t *testing.T) {
	typ, err := Parse("hamming")
	if err != nil {
		t.Fatal(err)
	}
	if typ != TypeHamming {
		t.Fatalf("Parse = %v, want hamming", typ)
	}
	if _, err := Parse("kaiser"); err == nil {
		t.Fatal("expected error for unsupported name")
	}
}

func TestCoherentGain(t *testing.T) {
	g, err := CoherentGain(Generate(TypeHann, 1024, WithPeriodic()))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g-0.5) > 1e-12 {
		t.Fatalf("gain = %v, want 0.5", g)
	}
	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := CoherentGain([]float64{0, 0}); err == nil {
		t.Fatal("expected error for zero gain")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	samples := []float64{1, 2, 3}
	if err := ApplyCoefficientsInPlace(samples, []float64{0, 0.5, 1}); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 3}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}
	if err := ApplyCoefficientsInPlace(samples, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
