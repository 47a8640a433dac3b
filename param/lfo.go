package param

import "math"

// LFO drives one parameter's live LFO value from an amplitude and a rate
// parameter: depth * amp * sin(t * rate).
type LFO struct {
	Target ID
	Amp    ID
	Rate   ID
	Depth  float64
}

// Value evaluates the oscillator at t seconds.
func (l LFO) Value(amp, rate, t float64) float64 {
	return l.Depth * amp * math.Sin(t*rate)
}

// DefaultLFOs returns the displacement and rotation oscillators. zDisplace
// is folded in multiplicatively by the store.
func DefaultLFOs() []LFO {
	return []LFO{
		{Target: XDisplace, Amp: XLFOAmp, Rate: XLFORate, Depth: 0.01},
		{Target: YDisplace, Amp: YLFOAmp, Rate: YLFORate, Depth: 0.01},
		{Target: ZDisplace, Amp: ZLFOAmp, Rate: ZLFORate, Depth: 0.05},
		{Target: Rotate, Amp: RotateLFOAmp, Rate: RotateLFORate, Depth: math.Pi / 10},
	}
}

// Modulator evaluates a bank of LFOs once per render tick.
type Modulator struct {
	lfos []LFO
}

// NewModulator returns a modulator over lfos, or over [DefaultLFOs] when
// none are given.
func NewModulator(lfos ...LFO) *Modulator {
	if len(lfos) == 0 {
		lfos = DefaultLFOs()
	}
	return &Modulator{lfos: append([]LFO(nil), lfos...)}
}

// LFOs returns a copy of the oscillator bank.
func (m *Modulator) LFOs() []LFO {
	return append([]LFO(nil), m.lfos...)
}

// Tick evaluates every oscillator at elapsed time t seconds, reading
// amplitude and rate from s and writing the result through s.SetLFO.
// Oscillators whose target has no LFO mode are skipped.
func (m *Modulator) Tick(s *Store, t float64) {
	for _, l := range m.lfos {
		v := l.Value(s.Float(l.Amp), s.Float(l.Rate), t)
		_ = s.SetLFO(l.Target, v)
	}
}
