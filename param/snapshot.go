package param

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// AutomationRecord is the persisted form of the sequencer.
type AutomationRecord struct {
	Smoothing float64     `json:"smoothFactor"`
	Tracks    [][]float64 `json:"tracks"`
}

// Snapshot is the persisted form of a Store: base values by id, MIDI
// bindings and automation.
type Snapshot struct {
	Values     map[string]float64 `json:"values"`
	Bindings   map[string]Binding `json:"midiBindings,omitempty"`
	Automation AutomationRecord   `json:"automation"`
}

// Export captures the store.
func (s *Store) Export() Snapshot {
	snap := Snapshot{
		Values:   make(map[string]float64, len(s.entries)),
		Bindings: make(map[string]Binding, len(s.bindings)),
		Automation: AutomationRecord{
			Smoothing: s.seq.Smoothing(),
			Tracks:    s.seq.Matrix(),
		},
	}
	for id, e := range s.entries {
		snap.Values[string(id)] = e.base
	}
	for id, b := range s.bindings {
		snap.Bindings[string(id)] = b
	}
	return snap
}

// Import applies snap on top of the current state. Values are written
// without recording. Unknown ids and invalid bindings are skipped and
// logged; the rest of the record still loads. The automation smoothing
// factor is only applied together with a track matrix. Import returns the
// skipped ids in sorted order.
func (s *Store) Import(snap Snapshot) []string {
	var skipped []string

	for _, key := range sortedKeys(snap.Values) {
		id := ID(key)
		e, ok := s.entries[id]
		if !ok {
			skipped = append(skipped, key)
			continue
		}
		v := snap.Values[key]
		if e.def.Kind == KindBool {
			_ = s.SetBool(id, v != 0)
			continue
		}
		_ = s.SetUnrecorded(id, v)
	}

	for _, key := range sortedKeys(snap.Bindings) {
		if err := s.Bind(ID(key), snap.Bindings[key]); err != nil {
			skipped = append(skipped, key)
		}
	}

	if snap.Automation.Tracks != nil {
		s.seq.SetSmoothing(snap.Automation.Smoothing)
		s.seq.LoadMatrix(snap.Automation.Tracks)
	}

	sort.Strings(skipped)
	for _, key := range skipped {
		s.log.WithFields(logrus.Fields{
			"function": "Store.Import",
			"id":       key,
		}).Warn("skipping unknown parameter record")
	}

	return skipped
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
