package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-feedback/control"
	"github.com/cwbudde/algo-feedback/dsp/delay"
	"github.com/cwbudde/algo-feedback/param"
	"github.com/cwbudde/algo-feedback/reactive"
)

// reported lists the composed values logged once per second.
var reported = []param.ID{
	param.Mix, param.Hue, param.Saturation, param.Brightness,
	param.XDisplace, param.YDisplace, param.ZDisplace, param.Rotate,
	param.HueModulation, param.DelayAmount,
}

// frame stands in for a rendered texture: the tick that produced it and the
// tick of the frame its feedback path read.
type frame struct {
	tick     uint64
	feedback uint64
}

// engine is the render-thread side of the instrument. Everything except
// pushAudio and midiIn belongs to the goroutine calling tick.
type engine struct {
	log      logrus.FieldLogger
	store    *param.Store
	mod      *param.Modulator
	audio    *reactive.Manager
	surface  *control.Surface
	ring     *delay.Ring[frame]
	midiIn   chan midi.Message
	dropped  atomic.Uint64
	audioErr atomic.Uint64
}

func newEngine(log logrus.FieldLogger, store *param.Store, audio *reactive.Manager, ringSize int) (*engine, error) {
	ring, err := delay.New[frame](ringSize)
	if err != nil {
		return nil, fmt.Errorf("feedbackd: ring: %w", err)
	}
	surface, err := control.NewSurface(store, control.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return &engine{
		log:     log,
		store:   store,
		mod:     param.NewModulator(),
		audio:   audio,
		surface: surface,
		ring:    ring,
		midiIn:  make(chan midi.Message, 64),
	}, nil
}

// pushAudio runs on the audio device thread.
func (e *engine) pushAudio(in []float32) {
	if err := e.audio.PushAudioBlock(in); err != nil {
		e.audioErr.Add(1)
	}
}

// receiveMIDI runs on the MIDI driver thread. Messages that do not fit the
// queue are dropped.
func (e *engine) receiveMIDI(msg midi.Message, _ int32) {
	select {
	case e.midiIn <- msg:
	default:
		e.dropped.Add(1)
	}
}

// tick runs one render step at elapsed time t and returns the frame the
// renderer would composite.
func (e *engine) tick(t time.Duration) (delay.Slots, frame) {
	e.drainMIDI()
	e.store.Advance()
	e.mod.Tick(e.store, t.Seconds())
	e.audio.Update(e.store)

	d := e.store.Int(param.DelayAmount)
	slots := e.ring.Slots(d)
	f := frame{tick: e.ring.Tick(), feedback: e.ring.Feedback(d).tick}
	e.ring.Store(f)
	e.ring.Advance()

	return slots, f
}

func (e *engine) drainMIDI() {
	for {
		select {
		case msg := <-e.midiIn:
			e.surface.Handle(msg)
		default:
			return
		}
	}
}

func (e *engine) report(slots delay.Slots) {
	fields := logrus.Fields{
		"function":  "engine.report",
		"tick":      e.ring.Tick(),
		"current":   slots.Current,
		"feedback":  slots.Feedback,
		"write":     slots.Write,
		"level":     e.audio.InputLevel(),
		"recording": e.store.Recording(),
	}
	for _, id := range reported {
		fields[string(id)] = e.store.Float(id)
	}
	if n := e.dropped.Swap(0); n > 0 {
		fields["midiDropped"] = n
	}
	if n := e.audioErr.Swap(0); n > 0 {
		fields["audioErrors"] = n
	}
	e.log.WithFields(fields).Info("render state")
}
