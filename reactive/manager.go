package reactive

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-feedback/dsp/core"
	"github.com/cwbudde/algo-feedback/dsp/spectrum"
)

const (
	defaultBlockSize     = 1024
	performanceBlockSize = 512
	defaultNumBands      = 8
)

// Option configures a [Manager].
type Option func(*config) error

type config struct {
	log         logrus.FieldLogger
	performance bool
	numBands    int
	ranges      []spectrum.BandRange
	mappings    []Mapping
	analyzer    []spectrum.AnalyzerOption
	enabled     bool
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("reactive: logger must not be nil")
		}
		c.log = l
		return nil
	}
}

// WithPerformanceMode analyzes 512-sample blocks instead of 1024.
func WithPerformanceMode(on bool) Option {
	return func(c *config) error {
		c.performance = on
		return nil
	}
}

// WithBands sets the band count.
func WithBands(k int) Option {
	return func(c *config) error {
		if k < 1 {
			return fmt.Errorf("%w: %d", spectrum.ErrInvalidBandCount, k)
		}
		c.numBands = k
		c.ranges = nil
		return nil
	}
}

// WithBandRanges sets explicit band ranges.
func WithBandRanges(ranges []spectrum.BandRange) Option {
	return func(c *config) error {
		if len(ranges) == 0 {
			return fmt.Errorf("%w: 0", spectrum.ErrInvalidBandCount)
		}
		c.ranges = append([]spectrum.BandRange(nil), ranges...)
		c.numBands = len(ranges)
		return nil
	}
}

// WithMappings replaces the default mapping table.
func WithMappings(m []Mapping) Option {
	return func(c *config) error {
		c.mappings = append([]Mapping{}, m...)
		return nil
	}
}

// WithAnalyzerOptions passes options through to the spectrum analyzer. The
// block size is owned by the performance mode and overrides any block size
// given here.
func WithAnalyzerOptions(opts ...spectrum.AnalyzerOption) Option {
	return func(c *config) error {
		c.analyzer = append(c.analyzer, opts...)
		return nil
	}
}

// WithEnabled sets the initial enabled state. Managers start enabled.
func WithEnabled(on bool) Option {
	return func(c *config) error {
		c.enabled = on
		return nil
	}
}

// Manager owns the analyzer, extractor and mapper, and the lock that
// serializes the audio thread against the render loop.
type Manager struct {
	log logrus.FieldLogger

	mu          sync.Mutex
	analyzer    *spectrum.Analyzer
	extractor   *spectrum.Extractor
	bands       []float64
	level       float64
	enabled     bool
	performance bool

	// render-loop only
	mapper  *Mapper
	scratch []float64
}

// NewManager creates an enabled manager with 8 bands, 1024-sample blocks
// and [DefaultMappings].
func NewManager(opts ...Option) (*Manager, error) {
	cfg := config{
		log:      logrus.StandardLogger().WithField("component", "reactive"),
		numBands: defaultNumBands,
		enabled:  true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	analyzer, err := newAnalyzer(cfg.performance, cfg.analyzer...)
	if err != nil {
		return nil, err
	}

	extractor, err := newExtractor(analyzer, cfg.numBands, cfg.ranges)
	if err != nil {
		return nil, err
	}

	mappings := cfg.mappings
	if mappings == nil {
		mappings = DefaultMappings()
	}
	mapper, err := NewMapper(cfg.log, mappings...)
	if err != nil {
		return nil, err
	}

	return &Manager{
		log:         cfg.log,
		analyzer:    analyzer,
		extractor:   extractor,
		bands:       make([]float64, extractor.NumBands()),
		enabled:     cfg.enabled,
		performance: cfg.performance,
		mapper:      mapper,
	}, nil
}

func blockSizeFor(performance bool) int {
	if performance {
		return performanceBlockSize
	}
	return defaultBlockSize
}

func newAnalyzer(performance bool, opts ...spectrum.AnalyzerOption) (*spectrum.Analyzer, error) {
	all := append(append([]spectrum.AnalyzerOption(nil), opts...), spectrum.WithBlockSize(blockSizeFor(performance)))
	a, err := spectrum.NewAnalyzer(all...)
	if err != nil {
		return nil, fmt.Errorf("reactive: analyzer: %w", err)
	}
	return a, nil
}

func newExtractor(a *spectrum.Analyzer, numBands int, ranges []spectrum.BandRange) (*spectrum.Extractor, error) {
	opts := []spectrum.ExtractorOption{
		spectrum.WithUsableBins(a.NumBins()),
		spectrum.WithBandSmoothing(a.Smoothing()),
		spectrum.WithBands(numBands),
	}
	if ranges != nil {
		opts = append(opts, spectrum.WithBandRanges(ranges))
	}
	e, err := spectrum.NewExtractor(opts...)
	if err != nil {
		return nil, fmt.Errorf("reactive: extractor: %w", err)
	}
	return e, nil
}

// PushAudioBlock analyzes one mono block from the audio device thread. A
// disabled manager ignores the block.
func (m *Manager) PushAudioBlock(samples []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return nil
	}
	if err := m.analyzer.Push(samples); err != nil {
		return err
	}
	m.level = m.analyzer.Level()
	return nil
}

// Update runs once per render tick. Under the lock it turns the latest
// spectrum into band energies; after releasing it, it applies the mapping
// table through w. A disabled manager does nothing.
func (m *Manager) Update(w OffsetWriter) {
	m.mu.Lock()
	if !m.enabled {
		m.mu.Unlock()
		return
	}
	bands := m.extractor.Extract(m.analyzer.Process())
	copy(m.bands, bands)
	m.scratch = core.EnsureLen(m.scratch, len(bands))
	copy(m.scratch, bands)
	m.mu.Unlock()

	if w != nil {
		m.mapper.Apply(m.scratch, w)
	}
}

// Mapper returns the mapping table. It belongs to the render loop.
func (m *Manager) Mapper() *Mapper { return m.mapper }

// AddMapping appends a mapping.
func (m *Manager) AddMapping(mp Mapping) error { return m.mapper.AddMapping(mp) }

// RemoveMapping deletes the mapping at index i.
func (m *Manager) RemoveMapping(i int) bool { return m.mapper.RemoveMapping(i) }

// ClearMappings removes every mapping.
func (m *Manager) ClearMappings() { m.mapper.ClearMappings() }

// Enabled reports whether the manager processes audio.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetEnabled enables or disables processing.
func (m *Manager) SetEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = on
}

// Band returns the smoothed energy of band i from the last Update, or 0 for
// an invalid index.
func (m *Manager) Band(i int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.bands) {
		return 0
	}
	return m.bands[i]
}

// Bands returns a copy of the band energies from the last Update.
func (m *Manager) Bands() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.bands...)
}

// NumBands returns the band count.
func (m *Manager) NumBands() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bands)
}

// BandRanges returns a copy of the band ranges.
func (m *Manager) BandRanges() []spectrum.BandRange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extractor.Ranges()
}

// InputLevel returns the RMS level of the last pushed block.
func (m *Manager) InputLevel() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// Sensitivity returns the analyzer input gain.
func (m *Manager) Sensitivity() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyzer.Sensitivity()
}

// SetSensitivity sets the analyzer input gain.
func (m *Manager) SetSensitivity(s float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzer.SetSensitivity(s)
}

// Smoothing returns the spectrum and band smoothing factor.
func (m *Manager) Smoothing() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyzer.Smoothing()
}

// SetSmoothing sets the spectrum and band smoothing factor, clamped to
// [0, 0.99].
func (m *Manager) SetSmoothing(s float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzer.SetSmoothing(s)
	m.extractor.SetSmoothing(s)
}

// Normalization reports whether per-frame normalization is enabled.
func (m *Manager) Normalization() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyzer.Normalization()
}

// SetNormalization enables or disables per-frame normalization.
func (m *Manager) SetNormalization(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzer.SetNormalization(on)
}

// PerformanceMode reports whether 512-sample blocks are analyzed.
func (m *Manager) PerformanceMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.performance
}

// BlockSize returns the analysis block size.
func (m *Manager) BlockSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyzer.BlockSize()
}

// SetPerformanceMode switches the analysis block size. Spectrum state and
// band ranges are rebuilt; sensitivity, smoothing and normalization carry
// over. Explicit band ranges are replaced by ranges for the new bin count.
func (m *Manager) SetPerformanceMode(on bool) error {
	m.mu.Lock()
	if on == m.performance {
		m.mu.Unlock()
		return nil
	}

	a, err := newAnalyzer(on,
		spectrum.WithSensitivity(m.analyzer.Sensitivity()),
		spectrum.WithSmoothing(m.analyzer.Smoothing()),
		spectrum.WithNormalization(m.analyzer.Normalization()),
	)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	e, err := newExtractor(a, len(m.bands), nil)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.analyzer = a
	m.extractor = e
	m.performance = on
	m.level = 0
	for i := range m.bands {
		m.bands[i] = 0
	}
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"function":  "Manager.SetPerformanceMode",
		"blockSize": a.BlockSize(),
	}).Info("analysis block size changed")
	return nil
}

// SetNumBands rebuilds the extractor with k bands.
func (m *Manager) SetNumBands(k int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := newExtractor(m.analyzer, k, nil)
	if err != nil {
		return err
	}
	m.extractor = e
	m.bands = make([]float64, e.NumBands())
	return nil
}

// SetBandRanges rebuilds the extractor with explicit ranges.
func (m *Manager) SetBandRanges(ranges []spectrum.BandRange) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: 0", spectrum.ErrInvalidBandCount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, err := newExtractor(m.analyzer, len(ranges), ranges)
	if err != nil {
		return err
	}
	m.extractor = e
	m.bands = make([]float64, e.NumBands())
	return nil
}

// ResetDevice zeroes the spectrum, bands and level meter. Call it when the
// capture device changes.
func (m *Manager) ResetDevice() {
	m.mu.Lock()
	m.analyzer.Reset()
	m.extractor.Reset()
	for i := range m.bands {
		m.bands[i] = 0
	}
	m.level = 0
	m.mu.Unlock()

	m.log.WithField("function", "Manager.ResetDevice").Info("audio device reset, spectrum cleared")
}
