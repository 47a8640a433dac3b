package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-feedback/dsp/core"
	"github.com/cwbudde/algo-feedback/dsp/window"
)

const (
	defaultBlockSize   = 1024
	defaultSensitivity = 1.0
	defaultGain        = 10.0
	defaultExponent    = 2.0
	defaultSmoothing   = 0.85
	maxSmoothing       = 0.99
	normalizeEpsilon   = 1e-12
)

// AnalyzerOption configures an [Analyzer].
type AnalyzerOption func(*analyzerConfig) error

type analyzerConfig struct {
	blockSize   int
	sensitivity float64
	gain        float64
	exponent    float64
	smoothing   float64
	normalize   bool
	window      window.Type
}

func defaultAnalyzerConfig() analyzerConfig {
	return analyzerConfig{
		blockSize:   defaultBlockSize,
		sensitivity: defaultSensitivity,
		gain:        defaultGain,
		exponent:    defaultExponent,
		smoothing:   defaultSmoothing,
		normalize:   true,
		window:      window.TypeHamming,
	}
}

// WithBlockSize sets the analysis block (FFT) size. It must be a power of
// two of at least 16 samples.
func WithBlockSize(n int) AnalyzerOption {
	return func(cfg *analyzerConfig) error {
		if n < 16 || !core.IsPowerOfTwo(n) {
			return fmt.Errorf("%w: %d", ErrInvalidBlockSize, n)
		}
		cfg.blockSize = n
		return nil
	}
}

// WithSensitivity sets the input gain applied before the response curve.
func WithSensitivity(s float64) AnalyzerOption {
	return func(cfg *analyzerConfig) error {
		if s < 0 || !core.IsFinite(s) {
			return fmt.Errorf("spectrum: sensitivity must be finite and >= 0: %v", s)
		}
		cfg.sensitivity = s
		return nil
	}
}

// WithResponse sets the perceptual response curve (x*gain)^exponent.
func WithResponse(gain, exponent float64) AnalyzerOption {
	return func(cfg *analyzerConfig) error {
		if gain <= 0 || !core.IsFinite(gain) {
			return fmt.Errorf("spectrum: response gain must be > 0: %v", gain)
		}
		if exponent <= 0 || !core.IsFinite(exponent) {
			return fmt.Errorf("spectrum: response exponent must be > 0: %v", exponent)
		}
		cfg.gain = gain
		cfg.exponent = exponent
		return nil
	}
}

// WithSmoothing sets the peak-decay smoothing factor, clamped to [0, 0.99].
func WithSmoothing(s float64) AnalyzerOption {
	return func(cfg *analyzerConfig) error {
		if math.IsNaN(s) {
			return fmt.Errorf("spectrum: smoothing must not be NaN")
		}
		cfg.smoothing = core.Clamp(s, 0, maxSmoothing)
		return nil
	}
}

// WithNormalization enables or disables per-frame maximum normalization.
func WithNormalization(enabled bool) AnalyzerOption {
	return func(cfg *analyzerConfig) error {
		cfg.normalize = enabled
		return nil
	}
}

// WithWindow selects the analysis window.
func WithWindow(t window.Type) AnalyzerOption {
	return func(cfg *analyzerConfig) error {
		if t.String() == "unknown" {
			return fmt.Errorf("spectrum: unknown window type: %d", t)
		}
		cfg.window = t
		return nil
	}
}

// Analyzer converts fixed-size mono audio blocks into a smoothed magnitude
// spectrum of BlockSize()/2 bins.
type Analyzer struct {
	cfg analyzerConfig

	plan  *algofft.Plan[complex128]
	win   []float64
	scale float64

	frame    []float64
	in       []complex128
	out      []complex128
	mag      []float64
	curve    []float64
	smoothed []float64
	level    float64
}

// NewAnalyzer creates an analyzer. Defaults: 1024-sample blocks, Hamming
// window, sensitivity 1, response (x*10)^2, smoothing 0.85, normalization on.
func NewAnalyzer(opts ...AnalyzerOption) (*Analyzer, error) {
	cfg := defaultAnalyzerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	win, err := window.New(cfg.window, cfg.blockSize, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("spectrum: analysis window: %w", err)
	}
	gain, err := window.CoherentGain(win)
	if err != nil {
		return nil, fmt.Errorf("spectrum: analysis window: %w", err)
	}

	plan, err := algofft.NewPlan64(cfg.blockSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	bins := cfg.blockSize / 2
	return &Analyzer{
		cfg:      cfg,
		plan:     plan,
		win:      win,
		scale:    2 / (float64(cfg.blockSize) * gain),
		frame:    make([]float64, cfg.blockSize),
		in:       make([]complex128, cfg.blockSize),
		out:      make([]complex128, cfg.blockSize),
		mag:      make([]float64, bins),
		curve:    make([]float64, bins),
		smoothed: make([]float64, bins),
	}, nil
}

// BlockSize returns the analysis block size in samples.
func (a *Analyzer) BlockSize() int { return a.cfg.blockSize }

// NumBins returns the number of usable spectrum bins (BlockSize()/2).
func (a *Analyzer) NumBins() int { return len(a.smoothed) }

// Push analyzes one audio block. Non-finite samples are replaced with 0
// before the RMS level and FFT are computed. Blocks shorter than BlockSize()
// are zero-padded, longer blocks are truncated.
func (a *Analyzer) Push(block []float32) error {
	_, a.level = core.SanitizeInto(a.frame, block)

	if err := window.ApplyCoefficientsInPlace(a.frame, a.win); err != nil {
		return fmt.Errorf("spectrum: window: %w", err)
	}
	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("spectrum: forward fft: %w", err)
	}

	MagnitudeInto(a.mag, a.out)
	for i, m := range a.mag {
		a.mag[i] = core.Sanitize(m * a.scale)
	}

	return nil
}

// Process shapes the most recent magnitudes with the response curve,
// normalizes them and folds them into the smoothed spectrum, which it
// returns. The returned slice is owned by the analyzer and is overwritten by
// the next call.
func (a *Analyzer) Process() []float64 {
	k := a.cfg.sensitivity * a.cfg.gain

	peak := 0.0
	for i, m := range a.mag {
		v := core.Sanitize(mathPow(m*k, a.cfg.exponent))
		a.curve[i] = v
		if v > peak {
			peak = v
		}
	}

	norm := 1.0
	if a.cfg.normalize && peak > normalizeEpsilon {
		norm = 1 / peak
	}

	s := a.cfg.smoothing
	for i, v := range a.curve {
		x := v * norm
		y := math.Max(a.smoothed[i]*s, x*(1-s))
		if y < 0 || !core.IsFinite(y) {
			y = 0
		}
		a.smoothed[i] = core.FlushDenormals(y)
	}

	return a.smoothed
}

// Spectrum returns a copy of the smoothed spectrum.
func (a *Analyzer) Spectrum() []float64 {
	out := make([]float64, len(a.smoothed))
	copy(out, a.smoothed)
	return out
}

// Level returns the RMS level of the last pushed block.
func (a *Analyzer) Level() float64 { return a.level }

// Sensitivity returns the input gain.
func (a *Analyzer) Sensitivity() float64 { return a.cfg.sensitivity }

// SetSensitivity sets the input gain. Negative or non-finite values are
// ignored.
func (a *Analyzer) SetSensitivity(s float64) {
	if s < 0 || !core.IsFinite(s) {
		return
	}
	a.cfg.sensitivity = s
}

// Smoothing returns the peak-decay smoothing factor.
func (a *Analyzer) Smoothing() float64 { return a.cfg.smoothing }

// SetSmoothing sets the peak-decay smoothing factor, clamped to [0, 0.99].
func (a *Analyzer) SetSmoothing(s float64) {
	if math.IsNaN(s) {
		return
	}
	a.cfg.smoothing = core.Clamp(s, 0, maxSmoothing)
}

// Normalization reports whether per-frame normalization is enabled.
func (a *Analyzer) Normalization() bool { return a.cfg.normalize }

// SetNormalization enables or disables per-frame normalization.
func (a *Analyzer) SetNormalization(enabled bool) { a.cfg.normalize = enabled }

// Reset zeroes the magnitudes, the smoothed spectrum and the level meter.
func (a *Analyzer) Reset() {
	core.Zero(a.frame)
	core.Zero(a.mag)
	core.Zero(a.curve)
	core.Zero(a.smoothed)
	a.level = 0
}
