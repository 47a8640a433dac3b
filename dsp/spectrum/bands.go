package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-feedback/dsp/core"
)

const (
	defaultNumBands     = 8
	defaultUsableBins   = defaultBlockSize / 2
	defaultBandDeadband = 0.01
)

// BandRange is an inclusive range of spectrum bins.
type BandRange struct {
	Start int `json:"minBin"`
	End   int `json:"maxBin"`
}

// Width returns the number of bins covered by r.
func (r BandRange) Width() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

func (r BandRange) validate() error {
	if r.Start < 0 || r.End < r.Start {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidBandRange, r.Start, r.End)
	}
	return nil
}

// DefaultBandRanges returns the eight octave-ish bands tuned for a 1024-point
// FFT at 44.1 kHz, from sub-bass to air.
func DefaultBandRanges() []BandRange {
	return []BandRange{
		{1, 2},     // sub bass
		{3, 5},     // bass
		{6, 11},    // low mids
		{12, 46},   // mids
		{47, 92},   // high mids
		{93, 139},  // presence
		{140, 278}, // brilliance
		{279, 511}, // air
	}
}

// EvenBandRanges divides usableBins into numBands contiguous ranges of equal
// width. The last band absorbs the remainder.
func EvenBandRanges(numBands, usableBins int) []BandRange {
	if numBands < 1 || usableBins < 1 {
		return nil
	}

	per := usableBins / numBands
	out := make([]BandRange, numBands)
	for i := range out {
		out[i] = BandRange{Start: i * per, End: (i+1)*per - 1}
	}
	out[numBands-1].End = usableBins - 1
	return out
}

// BandRangesFor returns the default ranges for 8 bands over 512 usable bins
// and an even division of usableBins otherwise.
func BandRangesFor(numBands, usableBins int) []BandRange {
	if numBands == defaultNumBands && usableBins == defaultUsableBins {
		return DefaultBandRanges()
	}
	return EvenBandRanges(numBands, usableBins)
}

// ExtractorOption configures an [Extractor].
type ExtractorOption func(*extractorConfig) error

type extractorConfig struct {
	numBands   int
	usableBins int
	ranges     []BandRange
	smoothing  float64
	deadband   float64
}

// WithBands sets the band count. Ranges come from [BandRangesFor].
func WithBands(k int) ExtractorOption {
	return func(cfg *extractorConfig) error {
		if k < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidBandCount, k)
		}
		cfg.numBands = k
		cfg.ranges = nil
		return nil
	}
}

// WithUsableBins sets the number of spectrum bins even division spreads
// over. Defaults to 512.
func WithUsableBins(n int) ExtractorOption {
	return func(cfg *extractorConfig) error {
		if n < 1 {
			return fmt.Errorf("spectrum: usable bins must be >= 1: %d", n)
		}
		cfg.usableBins = n
		return nil
	}
}

// WithBandRanges sets explicit bin ranges; the band count follows.
func WithBandRanges(ranges []BandRange) ExtractorOption {
	return func(cfg *extractorConfig) error {
		if len(ranges) == 0 {
			return fmt.Errorf("%w: 0", ErrInvalidBandCount)
		}
		for _, r := range ranges {
			if err := r.validate(); err != nil {
				return err
			}
		}
		cfg.ranges = append([]BandRange(nil), ranges...)
		cfg.numBands = len(ranges)
		return nil
	}
}

// WithBandSmoothing sets the frame-to-frame band smoothing factor, clamped
// to [0, 0.99].
func WithBandSmoothing(s float64) ExtractorOption {
	return func(cfg *extractorConfig) error {
		if math.IsNaN(s) {
			return fmt.Errorf("spectrum: band smoothing must not be NaN")
		}
		cfg.smoothing = core.Clamp(s, 0, maxSmoothing)
		return nil
	}
}

// WithDeadband sets the magnitude below which a smoothed band snaps to 0.
func WithDeadband(d float64) ExtractorOption {
	return func(cfg *extractorConfig) error {
		if d < 0 || !core.IsFinite(d) {
			return fmt.Errorf("spectrum: deadband must be finite and >= 0: %v", d)
		}
		cfg.deadband = d
		return nil
	}
}

// Extractor groups a smoothed spectrum into bands. Each band's energy is the
// mean of its bins, smoothed as avg*(1-s) + prev*s and snapped to 0 inside
// the deadband.
type Extractor struct {
	ranges    []BandRange
	smoothing float64
	deadband  float64
	raw       []float64
	smoothed  []float64
}

// NewExtractor creates an extractor. Defaults: 8 bands, 512 usable bins,
// smoothing 0.85, deadband 0.01.
func NewExtractor(opts ...ExtractorOption) (*Extractor, error) {
	cfg := extractorConfig{
		numBands:   defaultNumBands,
		usableBins: defaultUsableBins,
		smoothing:  defaultSmoothing,
		deadband:   defaultBandDeadband,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	ranges := cfg.ranges
	if ranges == nil {
		ranges = BandRangesFor(cfg.numBands, cfg.usableBins)
	}

	return &Extractor{
		ranges:    ranges,
		smoothing: cfg.smoothing,
		deadband:  cfg.deadband,
		raw:       make([]float64, len(ranges)),
		smoothed:  make([]float64, len(ranges)),
	}, nil
}

// NumBands returns the band count.
func (e *Extractor) NumBands() int { return len(e.ranges) }

// Ranges returns a copy of the band ranges.
func (e *Extractor) Ranges() []BandRange {
	return append([]BandRange(nil), e.ranges...)
}

// Smoothing returns the band smoothing factor.
func (e *Extractor) Smoothing() float64 { return e.smoothing }

// SetSmoothing sets the band smoothing factor, clamped to [0, 0.99].
func (e *Extractor) SetSmoothing(s float64) {
	if math.IsNaN(s) {
		return
	}
	e.smoothing = core.Clamp(s, 0, maxSmoothing)
}

// Extract updates every band from spectrum and returns the smoothed band
// energies. Bins outside the spectrum are ignored; a band with no bins in
// range averages to 0. The returned slice is owned by the extractor.
func (e *Extractor) Extract(spectrum []float64) []float64 {
	s := e.smoothing
	for i, r := range e.ranges {
		sum := 0.0
		count := 0
		for bin := max(r.Start, 0); bin <= r.End && bin < len(spectrum); bin++ {
			sum += core.Sanitize(spectrum[bin])
			count++
		}

		avg := 0.0
		if count > 0 {
			avg = sum / float64(count)
		}

		e.raw[i] = avg
		e.smoothed[i] = core.Deadband(avg*(1-s)+e.smoothed[i]*s, e.deadband)
	}

	return e.smoothed
}

// Band returns the smoothed energy of band i, or 0 for an invalid index.
func (e *Extractor) Band(i int) float64 {
	if i < 0 || i >= len(e.smoothed) {
		return 0
	}
	return e.smoothed[i]
}

// RawBand returns the unsmoothed mean energy of band i, or 0 for an invalid
// index.
func (e *Extractor) RawBand(i int) float64 {
	if i < 0 || i >= len(e.raw) {
		return 0
	}
	return e.raw[i]
}

// Bands returns a copy of the smoothed band energies.
func (e *Extractor) Bands() []float64 {
	return append([]float64(nil), e.smoothed...)
}

// Reset zeroes raw and smoothed band energies.
func (e *Extractor) Reset() {
	core.Zero(e.raw)
	core.Zero(e.smoothed)
}
