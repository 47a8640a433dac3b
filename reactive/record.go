package reactive

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-feedback/dsp/spectrum"
)

// Record is the persisted form of the audio subsystem.
type Record struct {
	Enabled       bool                 `json:"enabled"`
	Normalization bool                 `json:"normalization"`
	Sensitivity   float64              `json:"sensitivity"`
	Smoothing     float64              `json:"smoothing"`
	NumBands      int                  `json:"numBands"`
	BandRanges    []spectrum.BandRange `json:"bandRanges,omitempty"`
	Mappings      []Mapping            `json:"mappings"`
}

// Export captures the manager's settings and mapping table.
func (m *Manager) Export() Record {
	m.mu.Lock()
	rec := Record{
		Enabled:       m.enabled,
		Normalization: m.analyzer.Normalization(),
		Sensitivity:   m.analyzer.Sensitivity(),
		Smoothing:     m.analyzer.Smoothing(),
		NumBands:      len(m.bands),
		BandRanges:    m.extractor.Ranges(),
	}
	m.mu.Unlock()

	rec.Mappings = m.mapper.Mappings()
	return rec
}

// Import applies rec. Band ranges are used when they match the band count;
// otherwise ranges are derived from the count. A record whose Mappings is nil
// loads [DefaultMappings]; an empty, non-nil table stays empty. A
// non-positive sensitivity is ignored. Invalid
// mappings are skipped and logged; Import returns their indices.
func (m *Manager) Import(rec Record) []int {
	m.SetEnabled(rec.Enabled)
	m.SetNormalization(rec.Normalization)
	if rec.Sensitivity > 0 {
		m.SetSensitivity(rec.Sensitivity)
	}
	m.SetSmoothing(rec.Smoothing)

	switch {
	case len(rec.BandRanges) > 0 && (rec.NumBands == 0 || rec.NumBands == len(rec.BandRanges)):
		if err := m.SetBandRanges(rec.BandRanges); err != nil {
			m.log.WithFields(logrus.Fields{
				"function": "Manager.Import",
				"error":    err,
			}).Warn("ignoring invalid band ranges")
			m.importBandCount(rec.NumBands)
		}
	default:
		m.importBandCount(rec.NumBands)
	}

	mappings := rec.Mappings
	if mappings == nil {
		mappings = DefaultMappings()
	}

	var skipped []int
	m.mapper.ClearMappings()
	for i, mp := range mappings {
		if err := m.mapper.AddMapping(mp); err != nil {
			skipped = append(skipped, i)
			m.log.WithFields(logrus.Fields{
				"function": "Manager.Import",
				"index":    i,
				"target":   mp.Target,
				"error":    err,
			}).Warn("skipping invalid mapping")
		}
	}
	return skipped
}

func (m *Manager) importBandCount(k int) {
	if k < 1 {
		return
	}
	if err := m.SetNumBands(k); err != nil {
		m.log.WithFields(logrus.Fields{
			"function": "Manager.Import",
			"numBands": k,
			"error":    err,
		}).Warn("ignoring invalid band count")
	}
}
