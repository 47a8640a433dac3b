// Command feedbackd runs the modulation engine of the feedback instrument
// against live audio and MIDI input, without a renderer.
//
// The audio device thread pushes capture blocks into the audio-reactive
// manager. A render loop ticks at -fps: it applies queued MIDI control
// changes, advances automation and LFOs, maps band energies to parameter
// offsets and walks the frame ring. Composed values and ring slots are
// logged once per second.
//
// Usage:
//
//	feedbackd [flags]
//
// Examples:
//
//	feedbackd
//	feedbackd -fps 60 -ring 120 -settings session.json
//	feedbackd -midi "nanoKONTROL" -performance -log-level debug
//	feedbackd -list-midi
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/cwbudde/algo-feedback/dsp/core"
	"github.com/cwbudde/algo-feedback/param"
	"github.com/cwbudde/algo-feedback/reactive"
	"github.com/cwbudde/algo-feedback/settings"
)

func main() {
	fps := flag.Int("fps", 30, "render ticks per second")
	ringSize := flag.Int("ring", 60, "frame ring length")
	settingsPath := flag.String("settings", "", "settings document to load at start and save on exit")
	midiPort := flag.String("midi", "", "MIDI input port name (substring match); empty disables MIDI")
	listMIDI := flag.Bool("list-midi", false, "list MIDI input ports and exit")
	noAudio := flag.Bool("no-audio", false, "run without audio capture")
	sampleRate := flag.Float64("sample-rate", core.DefaultProcessorConfig().SampleRate, "capture sample rate in Hz")
	performance := flag.Bool("performance", false, "analyze 512-sample blocks instead of 1024")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: feedbackd [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs the modulation engine against live audio and MIDI input.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logrus.SetLevel(lvl)
	log := logrus.WithField("component", "feedbackd")

	if *listMIDI {
		defer midi.CloseDriver()
		for i, in := range midi.GetInPorts() {
			fmt.Printf("%d: %s\n", i, in)
		}
		return
	}

	if *fps < 1 || *ringSize < 1 || *sampleRate <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := options{
		fps:          *fps,
		ringSize:     *ringSize,
		settingsPath: *settingsPath,
		midiPort:     *midiPort,
		audio:        !*noAudio,
		sampleRate:   *sampleRate,
		performance:  *performance,
	}
	if err := run(log, opts); err != nil {
		log.WithError(err).Error("feedbackd failed")
		os.Exit(1)
	}
}

type options struct {
	fps          int
	ringSize     int
	settingsPath string
	midiPort     string
	audio        bool
	sampleRate   float64
	performance  bool
}

func run(log *logrus.Entry, opts options) error {
	store, err := param.NewStore(param.WithLogger(log.WithField("component", "param")))
	if err != nil {
		return err
	}
	audio, err := reactive.NewManager(
		reactive.WithLogger(log.WithField("component", "reactive")),
		reactive.WithPerformanceMode(opts.performance),
	)
	if err != nil {
		return err
	}

	doc := settings.Document{Version: settings.Version}
	if opts.settingsPath != "" {
		doc, err = settings.Restore(opts.settingsPath, store, audio, log.WithField("component", "settings"))
		if err != nil {
			return err
		}
	}

	e, err := newEngine(log, store, audio, opts.ringSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.audio {
		proc := core.ApplyProcessorOptions(
			core.WithSampleRate(opts.sampleRate),
			core.WithBlockSize(audio.BlockSize()),
		)
		closeAudio, err := startCapture(log, e, proc)
		if err != nil {
			return err
		}
		defer closeAudio()
	}

	port := opts.midiPort
	if port == "" {
		port = doc.MIDIDevice
	}
	if port != "" {
		name, closeMIDI, err := startMIDI(log, e, port)
		if err != nil {
			log.WithError(err).WithField("port", port).Warn("MIDI input unavailable")
		} else {
			defer closeMIDI()
			doc.MIDIDevice = name
		}
	}

	renderLoop(ctx, log, e, opts.fps)

	if opts.settingsPath != "" {
		out := settings.Capture(store, audio)
		out.MIDIDevice = doc.MIDIDevice
		if err := settings.SaveFile(opts.settingsPath, out); err != nil {
			return err
		}
		log.WithField("path", opts.settingsPath).Info("settings saved")
	}
	return nil
}

func renderLoop(ctx context.Context, log logrus.FieldLogger, e *engine, fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	lastReport := start
	log.WithField("fps", fps).Info("render loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info("render loop stopped")
			return
		case now := <-ticker.C:
			slots, _ := e.tick(now.Sub(start))
			if now.Sub(lastReport) >= time.Second {
				e.report(slots)
				lastReport = now
			}
		}
	}
}

// startCapture opens the default input device as a mono float32 stream
// whose callback feeds the engine.
func startCapture(log logrus.FieldLogger, e *engine, proc core.ProcessorConfig) (func(), error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, proc.SampleRate, proc.BlockSize, e.pushAudio)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: open input: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: start: %w", err)
	}

	if dev, err := portaudio.DefaultInputDevice(); err == nil {
		log.WithFields(logrus.Fields{
			"device":     dev.Name,
			"sampleRate": stream.Info().SampleRate,
			"blockSize":  proc.BlockSize,
		}).Info("audio capture started")
	}

	return func() {
		_ = stream.Stop()
		_ = stream.Close()
		if err := portaudio.Terminate(); err != nil {
			log.WithError(err).Warn("portaudio terminate")
		}
	}, nil
}

// startMIDI listens on the first input port whose name contains port.
func startMIDI(log logrus.FieldLogger, e *engine, port string) (string, func(), error) {
	in, err := findInPort(port)
	if err != nil {
		return "", nil, err
	}
	stopListen, err := midi.ListenTo(in, e.receiveMIDI)
	if err != nil {
		return "", nil, fmt.Errorf("midi: listen on %s: %w", in, err)
	}
	log.WithField("port", in.String()).Info("MIDI input connected")

	return in.String(), func() {
		stopListen()
		drivers.Close()
	}, nil
}

func findInPort(port string) (drivers.In, error) {
	ins, err := drivers.Ins()
	if err != nil {
		return nil, fmt.Errorf("midi: %w", err)
	}
	for _, in := range ins {
		if strings.Contains(in.String(), port) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("midi: no input port matching %q", port)
}
