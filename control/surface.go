package control

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-feedback/param"
)

// DefaultHistory is the number of recent messages a surface keeps.
const DefaultHistory = 10

// Fixed controller numbers.
const (
	CCRecord        = 55
	CCVideoReactive = 39
	CCReset         = 59
)

const (
	ccOn  = 127
	ccOff = 0

	// centre of the 7-bit range for bipolar controls
	ccCentre = 63.5
)

var toggleCCs = map[uint8]param.ID{
	41: param.HorizontalMirror,
	42: param.HueInvert,
	43: param.BrightnessInvert,
	44: param.SaturationInvert,
	45: param.VerticalMirror,
	46: param.ToroidEnabled,
	60: param.LumakeyInvert,
	61: param.MirrorModeEnabled,
}

// ccWetMode turns wet mode on when it receives 0.
const ccWetMode = 71

// Option configures a [Surface].
type Option func(*Surface) error

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Surface) error {
		if l == nil {
			return fmt.Errorf("control: logger must not be nil")
		}
		s.log = l
		return nil
	}
}

// WithHistory sets how many recent messages are kept.
func WithHistory(n int) Option {
	return func(s *Surface) error {
		if n < 1 {
			return fmt.Errorf("control: history must be >= 1: %d", n)
		}
		s.history = n
		return nil
	}
}

// Surface applies MIDI control changes to a parameter store.
type Surface struct {
	store   *param.Store
	log     logrus.FieldLogger
	scaling [numGroups]Scaling
	history int
	recent  []midi.Message
}

// NewSurface creates a surface writing to store.
func NewSurface(store *param.Store, opts ...Option) (*Surface, error) {
	if store == nil {
		return nil, fmt.Errorf("control: store must not be nil")
	}
	s := &Surface{
		store:   store,
		log:     logrus.StandardLogger().WithField("component", "control"),
		history: DefaultHistory,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handle records msg in the history and applies it if it is a control
// change. It reports whether the message changed any state.
func (s *Surface) Handle(msg midi.Message) bool {
	s.remember(msg)

	var ch, ctl, val uint8
	if !msg.GetControlChange(&ch, &ctl, &val) {
		return false
	}
	return s.ControlChange(ch, ctl, val)
}

func (s *Surface) remember(msg midi.Message) {
	s.recent = append(s.recent, append(midi.Message(nil), msg...))
	if over := len(s.recent) - s.history; over > 0 {
		s.recent = append(s.recent[:0], s.recent[over:]...)
	}
}

// Recent returns the most recent messages, oldest first.
func (s *Surface) Recent() []midi.Message {
	out := make([]midi.Message, len(s.recent))
	copy(out, s.recent)
	return out
}

// ControlChange applies one control change. Channels are 0-based. It reports
// whether the message changed any state.
func (s *Surface) ControlChange(channel, control, value uint8) bool {
	if handled, ok := s.fixed(control, value); ok {
		return handled
	}
	return s.bound(channel, control, value)
}

// fixed handles the hard-wired controllers. ok is false when control is not
// one of them.
func (s *Surface) fixed(control, value uint8) (handled, ok bool) {
	switch control {
	case CCRecord:
		switch value {
		case ccOn:
			s.store.StartRecording()
		case ccOff:
			s.store.StopRecording()
		default:
			return false, true
		}
		return true, true

	case CCVideoReactive:
		if value != ccOn && value != ccOff {
			return false, true
		}
		on := value == ccOn
		s.setToggle(param.VideoReactiveMode, on)
		s.store.SetRecording(!on)
		return true, true

	case CCReset:
		if value != ccOn {
			return false, true
		}
		s.store.ResetToDefaults()
		return true, true

	case ccWetMode:
		s.setToggle(param.WetModeEnabled, value == ccOff)
		return true, true
	}

	if g, factor, found := scalingCC(control); found {
		s.scaling[g].set(factor, value == ccOn)
		return true, true
	}

	if id, found := toggleCCs[control]; found {
		s.setToggle(id, value == ccOn)
		return true, true
	}

	return false, false
}

func (s *Surface) setToggle(id param.ID, on bool) {
	if err := s.store.SetBool(id, on); err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "Surface.setToggle",
			"id":       id,
			"error":    err,
		}).Warn("toggle rejected")
	}
}

// bound routes a control change to the first bound parameter that accepts
// MIDI values.
func (s *Surface) bound(channel, control, value uint8) bool {
	for _, id := range s.store.BoundTo(int(channel), int(control)) {
		norm, ok := Normalize(id, value)
		if !ok {
			continue
		}
		norm *= s.Scale(id)
		return s.route(id, norm)
	}

	s.log.WithFields(logrus.Fields{
		"function": "Surface.bound",
		"channel":  channel,
		"control":  control,
		"value":    value,
	}).Debug("unmapped control change")
	return false
}

// route writes norm to id if the current mode targets id. Video-reactive
// mode only reaches the v* shadows, LFO amp and rate modes only the LFO
// parameters, and normal mode only the base effect parameters.
func (s *Surface) route(id param.ID, norm float64) bool {
	var accept bool
	switch {
	case s.store.Bool(param.VideoReactiveMode):
		accept = isVideoShadow(id)
	case s.store.Bool(param.LFOAmpMode):
		accept = lfoAmp[id]
	case s.store.Bool(param.LFORateMode):
		accept = lfoRate[id]
	default:
		accept = param.TrackOf(id) != param.NoTrack
	}
	if !accept {
		return false
	}

	var err error
	if id == param.DelayAmount {
		err = s.store.SetInt(id, int(norm*100))
	} else {
		err = s.store.Set(id, norm)
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "Surface.route",
			"id":       id,
			"error":    err,
		}).Warn("bound parameter rejected value")
		return false
	}
	return true
}

// Scale returns the active scaling factor for id, or 1.
func (s *Surface) Scale(id param.ID) float64 {
	g, ok := groupOf[id]
	if !ok {
		return 1
	}
	return s.scaling[g].Factor()
}

// Scaling returns the scaling state of a group.
func (s *Surface) Scaling(g Group) Scaling {
	if g < 0 || g >= numGroups {
		return Scaling{}
	}
	return s.scaling[g]
}
