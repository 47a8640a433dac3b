package control

import (
	"fmt"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-feedback/param"
)

func newTestSurface(t *testing.T) (*Surface, *param.Store) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store, err := param.NewStore(param.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSurface(store, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	return s, store
}

func bind(t *testing.T, store *param.Store, id param.ID, ch, ctl int) {
	t.Helper()
	if err := store.Bind(id, param.Binding{Channel: ch, Control: ctl}); err != nil {
		t.Fatal(err)
	}
}

func TestNewSurfaceValidation(t *testing.T) {
	if _, err := NewSurface(nil); err == nil {
		t.Fatal("expected error for nil store")
	}
	store, err := param.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSurface(store, WithHistory(0)); err == nil {
		t.Fatal("expected error for zero history")
	}
	if _, err := NewSurface(store, WithLogger(nil)); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestRecordControl(t *testing.T) {
	s, store := newTestSurface(t)

	if !s.Handle(midi.ControlChange(0, CCRecord, 127)) || !store.Recording() {
		t.Fatal("CC55 127 must start recording")
	}
	if s.Handle(midi.ControlChange(0, CCRecord, 64)) || !store.Recording() {
		t.Fatal("CC55 64 must be ignored")
	}
	if !s.Handle(midi.ControlChange(0, CCRecord, 0)) || store.Recording() {
		t.Fatal("CC55 0 must stop recording")
	}
}

func TestVideoReactiveControl(t *testing.T) {
	s, store := newTestSurface(t)

	s.Handle(midi.ControlChange(0, CCVideoReactive, 127))
	if !store.Bool(param.VideoReactiveMode) || store.Recording() {
		t.Fatal("CC39 127 must enable video-reactive mode with recording off")
	}
	s.Handle(midi.ControlChange(0, CCVideoReactive, 0))
	if store.Bool(param.VideoReactiveMode) || !store.Recording() {
		t.Fatal("CC39 0 must disable video-reactive mode with recording on")
	}
}

func TestResetControl(t *testing.T) {
	s, store := newTestSurface(t)
	if err := store.Set(param.Mix, 0.7); err != nil {
		t.Fatal(err)
	}

	s.Handle(midi.ControlChange(0, CCReset, 100))
	if store.Base(param.Mix) != 0.7 {
		t.Fatal("CC59 below 127 must not reset")
	}
	s.Handle(midi.ControlChange(0, CCReset, 127))
	if store.Base(param.Mix) != 0 {
		t.Fatalf("mix = %v after reset, want 0", store.Base(param.Mix))
	}
}

func TestToggleControls(t *testing.T) {
	tests := []struct {
		control uint8
		id      param.ID
	}{
		{41, param.HorizontalMirror},
		{42, param.HueInvert},
		{43, param.BrightnessInvert},
		{44, param.SaturationInvert},
		{45, param.VerticalMirror},
		{46, param.ToroidEnabled},
		{60, param.LumakeyInvert},
		{61, param.MirrorModeEnabled},
	}

	s, store := newTestSurface(t)
	for _, tt := range tests {
		s.Handle(midi.ControlChange(0, tt.control, 127))
		if !store.Bool(tt.id) {
			t.Fatalf("CC%d 127: %q off", tt.control, tt.id)
		}
		s.Handle(midi.ControlChange(0, tt.control, 5))
		if store.Bool(tt.id) {
			t.Fatalf("CC%d 5: %q on", tt.control, tt.id)
		}
	}

	s.Handle(midi.ControlChange(0, 71, 127))
	if store.Bool(param.WetModeEnabled) {
		t.Fatal("CC71 127 must disable wet mode")
	}
	s.Handle(midi.ControlChange(0, 71, 0))
	if !store.Bool(param.WetModeEnabled) {
		t.Fatal("CC71 0 must enable wet mode")
	}
}

func TestScalingLargestWins(t *testing.T) {
	s, _ := newTestSurface(t)

	if s.Scale(param.XDisplace) != 1 {
		t.Fatal("default scale must be 1")
	}
	s.Handle(midi.ControlChange(0, 32, 127))
	s.Handle(midi.ControlChange(0, 48, 127))
	if got := s.Scale(param.VXDisplace); got != 5 {
		t.Fatalf("x scale = %v, want 5", got)
	}
	s.Handle(midi.ControlChange(0, 64, 127))
	if got := s.Scale(param.XLFORate); got != 10 {
		t.Fatalf("x scale = %v, want 10", got)
	}
	s.Handle(midi.ControlChange(0, 64, 0))
	s.Handle(midi.ControlChange(0, 48, 0))
	if got := s.Scale(param.XLFOAmp); got != 2 {
		t.Fatalf("x scale = %v, want 2", got)
	}

	s.Handle(midi.ControlChange(0, 70, 127))
	if got := s.Scaling(GroupHueLFO); !got.Times10 || s.Scale(param.VHueLFO) != 10 {
		t.Fatalf("hue LFO scaling = %+v", got)
	}
	if s.Scale(param.Mix) != 1 || s.Scaling(numGroups) != (Scaling{}) {
		t.Fatal("unscaled parameter or invalid group")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		id    param.ID
		value uint8
		want  float64
		ok    bool
	}{
		{param.LumakeyValue, 127, 1, true},
		{param.DelayAmount, 0, 0, true},
		{param.HueModulation, 64, 2, true},
		{param.Mix, 127, 1, true},
		{param.Mix, 0, -1, true},
		{param.VRotate, 127, 1, true},
		{param.XFrequency, 127, 0, false},
		{param.HueInvert, 127, 0, false},
		{"unknown", 1, 0, false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.id, tt.value)
		if ok != tt.ok || math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Normalize(%q, %d) = %v, %v; want %v, %v", tt.id, tt.value, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBoundControlNormalMode(t *testing.T) {
	s, store := newTestSurface(t)
	bind(t, store, param.XDisplace, 2, 20)
	bind(t, store, param.DelayAmount, 2, 21)

	s.Handle(midi.ControlChange(2, 32, 127))
	if !s.Handle(midi.ControlChange(2, 20, 127)) {
		t.Fatal("bound control not handled")
	}
	if got := store.Base(param.XDisplace); math.Abs(got-2) > 1e-12 {
		t.Fatalf("xDisplace = %v, want 2", got)
	}

	s.Handle(midi.ControlChange(2, 21, 127))
	if got := store.Int(param.DelayAmount); got != 100 {
		t.Fatalf("delayAmount = %d, want 100", got)
	}

	if s.Handle(midi.ControlChange(3, 20, 127)) {
		t.Fatal("other channel must not match the binding")
	}
}

func TestBoundControlRecords(t *testing.T) {
	s, store := newTestSurface(t)
	bind(t, store, param.Mix, 0, 10)

	s.Handle(midi.ControlChange(0, CCRecord, 127))
	s.Handle(midi.ControlChange(0, 10, 127))
	store.Advance()

	if got := store.Sequencer().Read(param.TrackOf(param.Mix)); got <= 0 {
		t.Fatalf("mix automation = %v, want > 0 while recording", got)
	}
}

func TestBoundControlModeRouting(t *testing.T) {
	s, store := newTestSurface(t)
	bind(t, store, param.Mix, 0, 10)
	bind(t, store, param.VMix, 0, 11)
	bind(t, store, param.XLFOAmp, 0, 12)
	bind(t, store, param.XLFORate, 0, 13)

	// Normal mode never reaches shadows or LFO parameters.
	if s.Handle(midi.ControlChange(0, 11, 127)) || s.Handle(midi.ControlChange(0, 12, 127)) {
		t.Fatal("normal mode wrote a shadow or LFO parameter")
	}

	s.Handle(midi.ControlChange(0, CCVideoReactive, 127))
	if s.Handle(midi.ControlChange(0, 10, 127)) {
		t.Fatal("video-reactive mode wrote a base parameter")
	}
	if !s.Handle(midi.ControlChange(0, 11, 127)) || store.Base(param.VMix) != 1 {
		t.Fatalf("vMix = %v, want 1", store.Base(param.VMix))
	}
	s.Handle(midi.ControlChange(0, CCVideoReactive, 0))

	if err := store.SetBool(param.LFOAmpMode, true); err != nil {
		t.Fatal(err)
	}
	if !s.Handle(midi.ControlChange(0, 12, 0)) || store.Base(param.XLFOAmp) != -1 {
		t.Fatalf("xLfoAmp = %v, want -1", store.Base(param.XLFOAmp))
	}
	if s.Handle(midi.ControlChange(0, 13, 0)) {
		t.Fatal("amp mode wrote an LFO rate")
	}

	if err := store.SetBool(param.LFOAmpMode, false); err != nil {
		t.Fatal(err)
	}
	if err := store.SetBool(param.LFORateMode, true); err != nil {
		t.Fatal(err)
	}
	if !s.Handle(midi.ControlChange(0, 13, 127)) || store.Base(param.XLFORate) != 1 {
		t.Fatalf("xLfoRate = %v, want 1", store.Base(param.XLFORate))
	}
}

func TestFixedControlsShadowBindings(t *testing.T) {
	s, store := newTestSurface(t)
	bind(t, store, param.Mix, 0, CCReset)
	if err := store.Set(param.Hue, 2); err != nil {
		t.Fatal(err)
	}

	s.Handle(midi.ControlChange(0, CCReset, 127))
	if store.Base(param.Hue) != 1 {
		t.Fatal("reset controller must win over a binding")
	}
}

func TestRecentHistory(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store, err := param.NewStore(param.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSurface(store, WithLogger(logger), WithHistory(3))
	if err != nil {
		t.Fatal(err)
	}

	for v := range uint8(5) {
		s.Handle(midi.ControlChange(0, 100, v))
	}
	s.Handle(midi.NoteOn(0, 60, 100))

	recent := s.Recent()
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	var ch, ctl, val uint8
	if !recent[0].GetControlChange(&ch, &ctl, &val) || val != 3 {
		t.Fatalf("oldest = %v, want CC value 3", recent[0])
	}
	var key, vel uint8
	if !recent[2].GetNoteOn(&ch, &key, &vel) || key != 60 {
		t.Fatalf("newest = %v, want note on 60", recent[2])
	}
}

func TestUnmappedControlLogsDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	store, err := param.NewStore(param.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSurface(store, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	if s.Handle(midi.ControlChange(0, 100, 1)) {
		t.Fatal("unmapped control reported as handled")
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.DebugLevel {
		t.Fatalf("last entry = %v, want a debug entry", e)
	}
}

func ExampleSurface() {
	store, _ := param.NewStore()
	surface, _ := NewSurface(store)
	_ = store.Bind(param.Rotate, param.Binding{Channel: 0, Control: 20})

	surface.Handle(midi.ControlChange(0, 35, 127)) // rotate ×2
	surface.Handle(midi.ControlChange(0, 20, 127))

	fmt.Println(store.Base(param.Rotate))
	// Output: 2
}
