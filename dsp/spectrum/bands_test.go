package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-feedback/internal/testutil"
)

func TestDefaultBandRanges(t *testing.T) {
	r := DefaultBandRanges()
	if len(r) != 8 {
		t.Fatalf("len = %d, want 8", len(r))
	}
	if r[0] != (BandRange{1, 2}) || r[7] != (BandRange{279, 511}) {
		t.Fatalf("unexpected bounds: first=%v last=%v", r[0], r[7])
	}
	for i := 1; i < len(r); i++ {
		if r[i].Start != r[i-1].End+1 {
			t.Fatalf("band %d not contiguous with band %d", i, i-1)
		}
	}
}

func TestEvenBandRanges(t *testing.T) {
	got := EvenBandRanges(3, 10)
	want := []BandRange{{0, 2}, {3, 5}, {6, 9}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("band %d = %v, want %v", i, got[i], want[i])
		}
	}

	if EvenBandRanges(0, 10) != nil || EvenBandRanges(4, 0) != nil {
		t.Fatal("degenerate input must return nil")
	}
}

func TestBandRangeWidth(t *testing.T) {
	if w := (BandRange{3, 5}).Width(); w != 3 {
		t.Fatalf("Width = %d, want 3", w)
	}
	if w := (BandRange{5, 3}).Width(); w != 0 {
		t.Fatalf("Width = %d, want 0", w)
	}
}

func TestNewExtractorValidation(t *testing.T) {
	if _, err := NewExtractor(WithBands(0)); !errors.Is(err, ErrInvalidBandCount) {
		t.Fatalf("err = %v, want ErrInvalidBandCount", err)
	}
	if _, err := NewExtractor(WithBandRanges([]BandRange{{4, 2}})); !errors.Is(err, ErrInvalidBandRange) {
		t.Fatalf("err = %v, want ErrInvalidBandRange", err)
	}
	if _, err := NewExtractor(WithBandRanges([]BandRange{{-1, 2}})); !errors.Is(err, ErrInvalidBandRange) {
		t.Fatalf("err = %v, want ErrInvalidBandRange", err)
	}
	if _, err := NewExtractor(WithDeadband(-0.1)); err == nil {
		t.Fatal("expected error for negative deadband")
	}
}

func TestExtractorBandCount(t *testing.T) {
	e, err := NewExtractor(WithBands(4))
	if err != nil {
		t.Fatal(err)
	}
	r := e.Ranges()
	if len(r) != 4 || r[0] != (BandRange{0, 127}) || r[3] != (BandRange{384, 511}) {
		t.Fatalf("ranges = %v", r)
	}

	e, err = NewExtractor(WithBands(4), WithUsableBins(256))
	if err != nil {
		t.Fatal(err)
	}
	if r := e.Ranges(); r[3] != (BandRange{192, 255}) {
		t.Fatalf("last range = %v, want [192 255]", r[3])
	}
}

func TestExtractorAverage(t *testing.T) {
	e, err := NewExtractor(
		WithBandRanges([]BandRange{{0, 1}, {2, 3}}),
		WithBandSmoothing(0),
	)
	if err != nil {
		t.Fatal(err)
	}

	got := e.Extract([]float64{1, 0.5, 0.2, 0.2})
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.75, 0.2}, 1e-12)
	if e.RawBand(0) != 0.75 {
		t.Fatalf("RawBand(0) = %v, want 0.75", e.RawBand(0))
	}
}

func TestExtractorSmoothing(t *testing.T) {
	e, err := NewExtractor(
		WithBandRanges([]BandRange{{0, 1}, {2, 3}}),
		WithBandSmoothing(0.5),
	)
	if err != nil {
		t.Fatal(err)
	}

	bins := []float64{1, 0.5, 0.2, 0.2}
	testutil.RequireSliceNearlyEqual(t, e.Extract(bins), []float64{0.375, 0.1}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, e.Extract(bins), []float64{0.5625, 0.15}, 1e-12)
}

func TestExtractorDeadband(t *testing.T) {
	e, err := NewExtractor(WithBandRanges([]BandRange{{0, 0}}), WithBandSmoothing(0))
	if err != nil {
		t.Fatal(err)
	}

	if got := e.Extract([]float64{0.009}); got[0] != 0 {
		t.Fatalf("band = %v, want 0", got[0])
	}
	if got := e.Extract([]float64{0.02}); got[0] != 0.02 {
		t.Fatalf("band = %v, want 0.02", got[0])
	}
}

func TestExtractorIgnoresBinsBeyondSpectrum(t *testing.T) {
	e, err := NewExtractor(
		WithBandRanges([]BandRange{{2, 10}, {20, 30}}),
		WithBandSmoothing(0),
	)
	if err != nil {
		t.Fatal(err)
	}

	got := e.Extract([]float64{9, 9, 0.4, 0.6})
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, 0}, 1e-12)
}

func TestExtractorSanitizesInput(t *testing.T) {
	e, err := NewExtractor(WithBandRanges([]BandRange{{0, 1}}), WithBandSmoothing(0))
	if err != nil {
		t.Fatal(err)
	}

	got := e.Extract([]float64{math.NaN(), 0.5})
	if got[0] != 0.25 {
		t.Fatalf("band = %v, want 0.25", got[0])
	}
}

func TestExtractorInvalidIndexAndReset(t *testing.T) {
	e, err := NewExtractor(WithBandSmoothing(0))
	if err != nil {
		t.Fatal(err)
	}

	bins := make([]float64, 512)
	for i := range bins {
		bins[i] = 0.5
	}
	e.Extract(bins)

	if e.Band(-1) != 0 || e.Band(8) != 0 || e.RawBand(99) != 0 {
		t.Fatal("invalid band index must return 0")
	}
	if e.Band(3) != 0.5 {
		t.Fatalf("Band(3) = %v, want 0.5", e.Band(3))
	}

	e.Reset()
	for i, v := range e.Bands() {
		if v != 0 {
			t.Fatalf("band %d = %v after reset", i, v)
		}
	}
}

func TestAnalyzerIntoExtractorStaysBounded(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewExtractor()
	if err != nil {
		t.Fatal(err)
	}

	for seed := range int64(20) {
		block := testutil.Float32(testutil.DeterministicNoise(seed, 0.8, a.BlockSize()))
		if err := a.Push(block); err != nil {
			t.Fatal(err)
		}
		testutil.RequireInRange(t, e.Extract(a.Process()), 0, 1)
	}
}

func TestBandRangesFor(t *testing.T) {
	if got := BandRangesFor(8, 512); got[3] != (BandRange{12, 46}) {
		t.Fatalf("8 bands over 512 bins should use defaults, got %v", got)
	}
	got := BandRangesFor(8, 256)
	if got[0] != (BandRange{0, 31}) || got[7] != (BandRange{224, 255}) {
		t.Fatalf("8 bands over 256 bins = %v", got)
	}
}
