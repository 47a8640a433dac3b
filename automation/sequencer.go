package automation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-feedback/dsp/core"
)

const (
	// DefaultSteps is the number of steps per track.
	DefaultSteps = 240
	// DefaultTracks is the number of automation tracks.
	DefaultTracks = 17
	// DefaultSmoothing is the playback smoothing factor.
	DefaultSmoothing = 0.5
	// Deadband is the magnitude below which a smoothed value snaps to 0.
	Deadband = 0.01
)

// Option configures a [Sequencer].
type Option func(*config) error

type config struct {
	steps     int
	tracks    int
	smoothing float64
}

// WithSmoothing sets the playback smoothing factor in [0, 1].
func WithSmoothing(f float64) Option {
	return func(cfg *config) error {
		if f < 0 || f > 1 || math.IsNaN(f) {
			return fmt.Errorf("automation: smoothing must be in [0, 1]: %v", f)
		}
		cfg.smoothing = f
		return nil
	}
}

// WithSteps sets the number of steps per track.
func WithSteps(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("automation: steps must be >= 1: %d", n)
		}
		cfg.steps = n
		return nil
	}
}

// WithTracks sets the number of tracks.
func WithTracks(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("automation: tracks must be >= 1: %d", n)
		}
		cfg.tracks = n
		return nil
	}
}

// Sequencer records and plays back per-track automation.
type Sequencer struct {
	raw       [][]float64
	smoothed  []float64
	step      int
	recording bool
	smoothing float64
}

// New creates a sequencer with DefaultTracks tracks of DefaultSteps steps.
func New(opts ...Option) (*Sequencer, error) {
	cfg := config{
		steps:     DefaultSteps,
		tracks:    DefaultTracks,
		smoothing: DefaultSmoothing,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	raw := make([][]float64, cfg.tracks)
	for i := range raw {
		raw[i] = make([]float64, cfg.steps)
	}

	return &Sequencer{
		raw:       raw,
		smoothed:  make([]float64, cfg.tracks),
		smoothing: cfg.smoothing,
	}, nil
}

// Tracks returns the track count.
func (s *Sequencer) Tracks() int { return len(s.raw) }

// Steps returns the number of steps per track.
func (s *Sequencer) Steps() int { return len(s.raw[0]) }

// Step returns the shared step cursor.
func (s *Sequencer) Step() int { return s.step }

// Recording reports whether record mode is active.
func (s *Sequencer) Recording() bool { return s.recording }

// Smoothing returns the playback smoothing factor.
func (s *Sequencer) Smoothing() float64 { return s.smoothing }

// SetSmoothing sets the playback smoothing factor, clamped to [0, 1].
// NaN is ignored.
func (s *Sequencer) SetSmoothing(f float64) {
	if math.IsNaN(f) {
		return
	}
	s.smoothing = core.Clamp(f, 0, 1)
}

// StartRecording enters record mode. Every track is first filled with the
// value it holds at the current step, so unrecorded steps play back that
// value instead of stale or zero content.
func (s *Sequencer) StartRecording() {
	s.recording = true
	for _, track := range s.raw {
		v := track[s.step]
		for j := range track {
			track[j] = v
		}
	}
}

// StopRecording leaves record mode. Recorded content is kept.
func (s *Sequencer) StopRecording() {
	s.recording = false
}

// SetRecording switches record mode without seeding the tracks.
func (s *Sequencer) SetRecording(on bool) {
	s.recording = on
}

// Record writes v into track at the current step. It is a no-op outside
// record mode or for an invalid track.
func (s *Sequencer) Record(track int, v float64) {
	if !s.recording || track < 0 || track >= len(s.raw) {
		return
	}
	s.raw[track][s.step] = core.Sanitize(v)
}

// Advance runs one render tick: every track's smoothed value moves toward
// the raw value at the current step, then the cursor advances if recording.
func (s *Sequencer) Advance() {
	a := s.smoothing
	for i, track := range s.raw {
		v := track[s.step]*(1-a) + s.smoothed[i]*a
		s.smoothed[i] = core.Deadband(v, Deadband)
	}

	if s.recording {
		s.step = (s.step + 1) % len(s.raw[0])
	}
}

// Read returns the smoothed value of track, or 0 for an invalid track.
func (s *Sequencer) Read(track int) float64 {
	if track < 0 || track >= len(s.smoothed) {
		return 0
	}
	return s.smoothed[track]
}

// ClearAll zeroes every raw and smoothed value. The step cursor is kept.
func (s *Sequencer) ClearAll() {
	for _, track := range s.raw {
		core.Zero(track)
	}
	core.Zero(s.smoothed)
}

// Track returns a copy of the raw values of track, or nil for an invalid
// track.
func (s *Sequencer) Track(track int) []float64 {
	if track < 0 || track >= len(s.raw) {
		return nil
	}
	return append([]float64(nil), s.raw[track]...)
}

// Matrix returns a copy of all raw values, one row per track.
func (s *Sequencer) Matrix() [][]float64 {
	out := make([][]float64, len(s.raw))
	for i, track := range s.raw {
		out[i] = append([]float64(nil), track...)
	}
	return out
}

// LoadMatrix replaces raw values from m. Rows beyond the track count are
// ignored; short rows overwrite only their prefix. Non-finite values load
// as 0. It returns the number of rows applied.
func (s *Sequencer) LoadMatrix(m [][]float64) int {
	n := min(len(m), len(s.raw))
	for i := 0; i < n; i++ {
		track := s.raw[i]
		for j, v := range m[i] {
			if j >= len(track) {
				break
			}
			track[j] = core.Sanitize(v)
		}
	}
	return n
}
