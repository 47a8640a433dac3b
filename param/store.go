package param

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-feedback/automation"
	"github.com/cwbudde/algo-feedback/dsp/core"
)

// Binding is a MIDI control-change address assigned to a parameter.
type Binding struct {
	Channel int `json:"channel"`
	Control int `json:"control"`
}

// StoreOption configures a [Store].
type StoreOption func(*Store) error

// WithLogger sets the logger used for diagnostics at the store boundary.
func WithLogger(l logrus.FieldLogger) StoreOption {
	return func(s *Store) error {
		if l == nil {
			return fmt.Errorf("param: logger must not be nil")
		}
		s.log = l
		return nil
	}
}

// WithSequencer uses seq for automation instead of a default sequencer.
func WithSequencer(seq *automation.Sequencer) StoreOption {
	return func(s *Store) error {
		if seq == nil {
			return fmt.Errorf("param: sequencer must not be nil")
		}
		s.seq = seq
		return nil
	}
}

type entry struct {
	def    Def
	base   float64
	offset float64
	lfo    float64
}

// Store owns every parameter's base value, audio offset and LFO value, plus
// the automation sequencer, and composes them on read.
type Store struct {
	entries  map[ID]*entry
	seq      *automation.Sequencer
	bindings map[ID]Binding
	log      logrus.FieldLogger
}

// NewStore creates a store with every catalog parameter at its default.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{
		entries:  make(map[ID]*entry, len(catalog)),
		bindings: make(map[ID]Binding),
		log:      logrus.StandardLogger().WithField("component", "param"),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.seq == nil {
		seq, err := automation.New()
		if err != nil {
			return nil, fmt.Errorf("param: automation: %w", err)
		}
		s.seq = seq
	}

	for _, d := range catalog {
		s.entries[d.ID] = &entry{def: d, base: d.Default}
	}

	return s, nil
}

// Sequencer returns the automation sequencer owned by the store.
func (s *Store) Sequencer() *automation.Sequencer { return s.seq }

func (s *Store) lookup(id ID, op string) (*entry, error) {
	e, ok := s.entries[id]
	if !ok {
		s.log.WithFields(logrus.Fields{
			"function": op,
			"id":       id,
		}).Warn("unknown parameter")
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	return e, nil
}

func (s *Store) automationValue(d Def) float64 {
	if !d.Automatable() {
		return 0
	}
	return s.seq.Read(d.Track)
}

// Float returns the composed value of id, or 0 for an unknown id. Toggles
// read as 0 or 1; delayAmount reads as its composed integer.
func (s *Store) Float(id ID) float64 {
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	switch e.def.Kind {
	case KindBool:
		return e.base
	case KindInt:
		return float64(s.composeInt(e))
	}

	d := e.def
	auto := s.automationValue(d)

	var v float64
	switch d.Composition {
	case Multiplicative:
		v = (e.base + e.offset) * (1 + auto)
	case InvertedMultiplicative:
		// (1 - automation) is the inverse of the other multiplicative
		// parameters. Preserved deliberately; confirm with the look owner
		// before changing it.
		v = (e.base + e.offset) * (1 - auto)
	default:
		v = e.base + e.offset + auto
	}

	switch d.LFO {
	case LFOAdd:
		v += e.lfo
	case LFOScale:
		v *= 1 + e.lfo
	}

	return v
}

func (s *Store) composeInt(e *entry) int {
	auto := s.automationValue(e.def)
	span := float64(s.seq.Steps() - 1)
	return int(e.base) + int(e.offset) + int(math.Round(auto*span))
}

// Int returns the composed value of an integer parameter, or the truncated
// composed value of a float parameter. Unknown ids read as 0.
func (s *Store) Int(id ID) int {
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	if e.def.Kind == KindInt {
		return s.composeInt(e)
	}
	return int(s.Float(id))
}

// Bool returns the state of a toggle. Unknown ids and non-toggles read as
// false.
func (s *Store) Bool(id ID) bool {
	e, ok := s.entries[id]
	if !ok || e.def.Kind != KindBool {
		return false
	}
	return e.base != 0
}

// Base returns the base value of id, or 0 for an unknown id.
func (s *Store) Base(id ID) float64 {
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	return e.base
}

// AudioOffset returns the audio offset of id, or 0 for an unknown id.
func (s *Store) AudioOffset(id ID) float64 {
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	return e.offset
}

// LFO returns the live LFO value of id, or 0.
func (s *Store) LFO(id ID) float64 {
	e, ok := s.entries[id]
	if !ok {
		return 0
	}
	return e.lfo
}

// Set writes the base value of a float or integer parameter and records it
// while the sequencer is recording. Integer parameters are truncated.
// Non-finite values are written as 0.
func (s *Store) Set(id ID, v float64) error {
	return s.set(id, v, true)
}

// SetUnrecorded writes the base value without recording it.
func (s *Store) SetUnrecorded(id ID, v float64) error {
	return s.set(id, v, false)
}

// SetInt writes the base value of an integer parameter and records it as
// v/(steps-1) while recording.
func (s *Store) SetInt(id ID, v int) error {
	e, err := s.lookup(id, "Store.SetInt")
	if err != nil {
		return err
	}
	if e.def.Kind != KindInt {
		return fmt.Errorf("%w: %q is not an integer parameter", ErrWrongKind, id)
	}
	return s.set(id, float64(v), true)
}

func (s *Store) set(id ID, v float64, record bool) error {
	e, err := s.lookup(id, "Store.Set")
	if err != nil {
		return err
	}

	v = core.Sanitize(v)
	switch e.def.Kind {
	case KindBool:
		return fmt.Errorf("%w: %q is a toggle", ErrWrongKind, id)
	case KindInt:
		v = math.Trunc(v)
	}
	e.base = v

	if record && e.def.Automatable() {
		rec := v
		if e.def.Kind == KindInt {
			rec = v / float64(s.seq.Steps()-1)
		}
		s.seq.Record(e.def.Track, rec)
	}

	return nil
}

// SetBool sets a toggle.
func (s *Store) SetBool(id ID, on bool) error {
	e, err := s.lookup(id, "Store.SetBool")
	if err != nil {
		return err
	}
	if e.def.Kind != KindBool {
		return fmt.Errorf("%w: %q is not a toggle", ErrWrongKind, id)
	}
	e.base = 0
	if on {
		e.base = 1
	}
	return nil
}

// Toggle flips a toggle and returns its new state.
func (s *Store) Toggle(id ID) (bool, error) {
	on := !s.Bool(id)
	if err := s.SetBool(id, on); err != nil {
		return false, err
	}
	return on, nil
}

// SetAudioOffset writes the audio-reactive offset of id. Offsets are never
// recorded.
func (s *Store) SetAudioOffset(id ID, v float64) error {
	e, err := s.lookup(id, "Store.SetAudioOffset")
	if err != nil {
		return err
	}
	if e.def.Kind == KindBool {
		return fmt.Errorf("%w: %q is a toggle", ErrWrongKind, id)
	}
	e.offset = core.Sanitize(v)
	return nil
}

// ClearAudioOffsets zeroes every audio offset.
func (s *Store) ClearAudioOffsets() {
	for _, e := range s.entries {
		e.offset = 0
	}
}

// SetLFO writes the live LFO value of id. Only parameters with an LFO mode
// accept one; LFO values are never recorded.
func (s *Store) SetLFO(id ID, v float64) error {
	e, err := s.lookup(id, "Store.SetLFO")
	if err != nil {
		return err
	}
	if e.def.LFO == LFONone {
		return fmt.Errorf("%w: %q", ErrNoLFO, id)
	}
	e.lfo = core.Sanitize(v)
	return nil
}

// Advance runs one automation tick.
func (s *Store) Advance() { s.seq.Advance() }

// StartRecording seeds and starts automation recording.
func (s *Store) StartRecording() { s.seq.StartRecording() }

// StopRecording stops automation recording.
func (s *Store) StopRecording() { s.seq.StopRecording() }

// SetRecording switches recording without seeding.
func (s *Store) SetRecording(on bool) { s.seq.SetRecording(on) }

// Recording reports whether automation is recording.
func (s *Store) Recording() bool { return s.seq.Recording() }

// ClearAutomation zeroes every automation track.
func (s *Store) ClearAutomation() { s.seq.ClearAll() }

// ResetToDefaults restores every base value, zeroes audio offsets and LFO
// values, and clears automation and MIDI bindings.
func (s *Store) ResetToDefaults() {
	for _, e := range s.entries {
		e.base = e.def.Default
		e.offset = 0
		e.lfo = 0
	}
	s.seq.ClearAll()
	s.bindings = make(map[ID]Binding)
	s.log.WithField("function", "Store.ResetToDefaults").Info("parameters reset to defaults")
}

// Bind assigns a MIDI control-change address to id.
func (s *Store) Bind(id ID, b Binding) error {
	if _, err := s.lookup(id, "Store.Bind"); err != nil {
		return err
	}
	if b.Channel < 0 || b.Channel > 15 || b.Control < 0 || b.Control > 127 {
		return fmt.Errorf("param: invalid binding for %q: channel %d control %d", id, b.Channel, b.Control)
	}
	s.bindings[id] = b
	return nil
}

// Unbind removes the MIDI binding of id.
func (s *Store) Unbind(id ID) {
	delete(s.bindings, id)
}

// BindingOf returns the MIDI binding of id.
func (s *Store) BindingOf(id ID) (Binding, bool) {
	b, ok := s.bindings[id]
	return b, ok
}

// Bindings returns a copy of all MIDI bindings.
func (s *Store) Bindings() map[ID]Binding {
	out := make(map[ID]Binding, len(s.bindings))
	for id, b := range s.bindings {
		out[id] = b
	}
	return out
}

// BoundTo returns the ids bound to a channel and control, in catalog order.
func (s *Store) BoundTo(channel, control int) []ID {
	var out []ID
	for _, d := range catalog {
		if b, ok := s.bindings[d.ID]; ok && b.Channel == channel && b.Control == control {
			out = append(out, d.ID)
		}
	}
	return out
}

// Values returns the base value of every parameter.
func (s *Store) Values() map[ID]float64 {
	out := make(map[ID]float64, len(s.entries))
	for id, e := range s.entries {
		out[id] = e.base
	}
	return out
}
