// Command bandscan runs a WAV file through the spectrum analyzer and band
// extractor and prints the input level and band energies per block.
//
// Usage:
//
//	bandscan -file in.wav [flags]
//
// Examples:
//
//	bandscan -file loop.wav
//	bandscan -file loop.wav -bands 4 -block 512
//	bandscan -file loop.wav -sensitivity 2 -every 10 -raw
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-feedback/dsp/core"
	"github.com/cwbudde/algo-feedback/dsp/spectrum"
	"github.com/cwbudde/algo-feedback/dsp/window"
)

func main() {
	file := flag.String("file", "", "WAV file to analyze (required)")
	bands := flag.Int("bands", 8, "number of bands")
	block := flag.Int("block", 1024, "analysis block size (power of two)")
	sensitivity := flag.Float64("sensitivity", 1, "input gain before the response curve")
	smoothing := flag.Float64("smoothing", 0.85, "spectrum and band smoothing factor [0, 0.99]")
	noNorm := flag.Bool("no-normalize", false, "disable per-frame normalization")
	win := flag.String("window", "hamming", "analysis window (rectangular, hann, hamming, blackman)")
	every := flag.Int("every", 1, "print every n-th block")
	raw := flag.Bool("raw", false, "print unsmoothed band means instead of smoothed energies")
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bandscan -file in.wav [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints per-block input level and band energies of a WAV file.\n\n")
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

	if *file == "" || *every < 1 {
		flag.Usage()
		os.Exit(2)
	}

	wt, err := window.Parse(*win)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	cfg := scanConfig{
		bands: *bands,
		block: *block,
		every: *every,
		raw:   *raw,
		analyzer: []spectrum.AnalyzerOption{
			spectrum.WithSensitivity(*sensitivity),
			spectrum.WithSmoothing(*smoothing),
			spectrum.WithNormalization(!*noNorm),
			spectrum.WithWindow(wt),
		},
	}

	if err := run(os.Stdout, *file, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type scanConfig struct {
	bands    int
	block    int
	every    int
	raw      bool
	analyzer []spectrum.AnalyzerOption
}

func run(w io.Writer, path string, cfg scanConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	clip, err := decodeMono(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logrus.WithFields(logrus.Fields{
		"function":   "run",
		"path":       path,
		"sampleRate": clip.sampleRate,
		"channels":   clip.channels,
		"bitDepth":   clip.bitDepth,
		"frames":     len(clip.samples),
	}).Debug("decoded wav file")

	return scan(w, clip, cfg)
}

// levelFloorDB is printed for silent blocks.
const levelFloorDB = -120.0

func scan(w io.Writer, clip monoClip, cfg scanConfig) error {
	proc := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(clip.sampleRate)),
		core.WithBlockSize(cfg.block),
	)
	if proc.BlockSize != cfg.block {
		return fmt.Errorf("block size must be a power of two >= 16: %d", cfg.block)
	}

	opts := append([]spectrum.AnalyzerOption{spectrum.WithBlockSize(proc.BlockSize)}, cfg.analyzer...)
	a, err := spectrum.NewAnalyzer(opts...)
	if err != nil {
		return err
	}
	e, err := spectrum.NewExtractor(
		spectrum.WithBands(cfg.bands),
		spectrum.WithUsableBins(a.NumBins()),
		spectrum.WithBandSmoothing(a.Smoothing()),
	)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "block\ttime\tlevel\tdB\t")
	for i, r := range e.Ranges() {
		fmt.Fprintf(tw, "b%d[%d-%d]\t", i, r.Start, r.End)
	}
	fmt.Fprintln(tw)

	n := proc.BlockSize
	for i, off := 0, 0; off < len(clip.samples); i, off = i+1, off+n {
		if err := a.Push(clip.samples[off:min(off+n, len(clip.samples))]); err != nil {
			return err
		}
		e.Extract(a.Process())
		if i%cfg.every != 0 {
			continue
		}

		t := float64(off) / proc.SampleRate
		db := max(core.LinearToDB(a.Level()), levelFloorDB)
		fmt.Fprintf(tw, "%d\t%.3f\t%.4f\t%.1f\t", i, t, a.Level(), db)
		for b := range e.NumBands() {
			v := e.Band(b)
			if cfg.raw {
				v = e.RawBand(b)
			}
			fmt.Fprintf(tw, "%.4f\t", v)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
