package reactive

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-feedback/dsp/core"
	"github.com/cwbudde/algo-feedback/param"
)

// Mapping turns one band's energy into an audio offset for a parameter.
type Mapping struct {
	Band     int      `json:"band"`
	Target   param.ID `json:"paramId"`
	Scale    float64  `json:"scale"`
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Additive bool     `json:"additive"`
}

// Offset computes the offset for a band energy.
//
// Direct mappings interpolate min + e*(max-min). Additive mappings recenter
// e to [-1, 1] and scale it: (2e-1)*scale. Both are clamped to [min, max].
func (m Mapping) Offset(energy float64) float64 {
	e := core.Sanitize(energy)
	if m.Additive {
		return core.Clamp((e*2-1)*m.Scale, m.Min, m.Max)
	}
	return core.Clamp(m.Min+e*(m.Max-m.Min), m.Min, m.Max)
}

// validate checks m and rewrites an aliased Target to its catalog id.
func (m *Mapping) validate() error {
	d, ok := param.Lookup(m.Target)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, m.Target)
	}
	m.Target = d.ID
	if d.Kind == param.KindBool {
		return fmt.Errorf("%w: %q is a toggle", ErrUnknownTarget, m.Target)
	}
	if m.Band < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBand, m.Band)
	}
	for _, v := range []float64{m.Scale, m.Min, m.Max} {
		if !core.IsFinite(v) {
			return fmt.Errorf("reactive: mapping for %q has non-finite bounds", m.Target)
		}
	}
	if m.Min > m.Max {
		return fmt.Errorf("reactive: mapping for %q has min %v > max %v", m.Target, m.Min, m.Max)
	}
	return nil
}

// DefaultMappings returns the stock band-to-parameter table.
func DefaultMappings() []Mapping {
	return []Mapping{
		{Band: 0, Target: param.ZDisplace, Scale: 0.5, Min: -0.2, Max: 0.2},
		{Band: 2, Target: param.XDisplace, Scale: 0.05, Min: -0.1, Max: 0.1},
		{Band: 3, Target: param.YDisplace, Scale: 0.5, Min: -0.1, Max: 0.1},
		{Band: 4, Target: param.Hue, Scale: 0.01, Min: 0.8, Max: 1.2},
		{Band: 5, Target: param.Rotate, Scale: 0.05, Min: -0.05, Max: 0.05, Additive: true},
		{Band: 6, Target: param.Saturation, Scale: 0.5, Min: 0.5, Max: 1.5},
		{Band: 7, Target: param.Brightness, Scale: 0.5, Min: 0.5, Max: 1.5},
		{Band: 3, Target: param.SharpenAmount, Scale: 0.2, Min: 0, Max: 0.2},
	}
}

// OffsetWriter receives computed audio offsets. *param.Store implements it.
type OffsetWriter interface {
	SetAudioOffset(id param.ID, v float64) error
}

// Mapper holds an ordered mapping table. When several mappings target the
// same parameter, the last one applied wins.
type Mapper struct {
	mappings []Mapping
	log      logrus.FieldLogger
}

// NewMapper returns a mapper with the given table. Invalid mappings are
// rejected.
func NewMapper(log logrus.FieldLogger, mappings ...Mapping) (*Mapper, error) {
	if log == nil {
		log = logrus.StandardLogger().WithField("component", "reactive")
	}
	m := &Mapper{log: log}
	for _, mp := range mappings {
		if err := m.AddMapping(mp); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddMapping appends a mapping.
func (m *Mapper) AddMapping(mp Mapping) error {
	if err := mp.validate(); err != nil {
		return err
	}
	m.mappings = append(m.mappings, mp)
	return nil
}

// RemoveMapping deletes the mapping at index i. An invalid index is a
// logged no-op; RemoveMapping reports whether a mapping was removed.
func (m *Mapper) RemoveMapping(i int) bool {
	if i < 0 || i >= len(m.mappings) {
		m.log.WithFields(logrus.Fields{
			"function": "Mapper.RemoveMapping",
			"index":    i,
			"count":    len(m.mappings),
		}).Debug("mapping index out of range")
		return false
	}
	m.mappings = append(m.mappings[:i], m.mappings[i+1:]...)
	return true
}

// ClearMappings removes every mapping.
func (m *Mapper) ClearMappings() {
	m.mappings = m.mappings[:0]
}

// Mappings returns a copy of the table. An empty table yields an empty,
// non-nil slice.
func (m *Mapper) Mappings() []Mapping {
	out := make([]Mapping, len(m.mappings))
	copy(out, m.mappings)
	return out
}

// Len returns the number of mappings.
func (m *Mapper) Len() int { return len(m.mappings) }

// Apply writes one offset per mapping, in table order. Mappings whose band
// is outside bands are skipped.
func (m *Mapper) Apply(bands []float64, w OffsetWriter) {
	for _, mp := range m.mappings {
		if mp.Band >= len(bands) {
			continue
		}
		if err := w.SetAudioOffset(mp.Target, mp.Offset(bands[mp.Band])); err != nil {
			m.log.WithFields(logrus.Fields{
				"function": "Mapper.Apply",
				"target":   mp.Target,
				"error":    err,
			}).Debug("audio offset rejected")
		}
	}
}

// Targets returns the distinct mapped parameter ids in table order.
func (m *Mapper) Targets() []param.ID {
	seen := make(map[param.ID]bool, len(m.mappings))
	var out []param.ID
	for _, mp := range m.mappings {
		if !seen[mp.Target] {
			seen[mp.Target] = true
			out = append(out, mp.Target)
		}
	}
	return out
}
