package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

var (
	errNotWAV            = errors.New("not a WAV file")
	errUnsupportedFormat = errors.New("unsupported WAV format")
)

// maxBitDepth is the widest integer PCM sample decodeMono accepts.
const maxBitDepth = 32

type monoClip struct {
	samples    []float32
	sampleRate int
	channels   int
	bitDepth   int
}

// decodeMono reads a PCM WAV stream and averages its channels into one
// float32 track in [-1, 1].
func decodeMono(r io.ReadSeeker) (monoClip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return monoClip{}, errNotWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return monoClip{}, fmt.Errorf("decode pcm: %w", err)
	}

	ch := buf.Format.NumChannels
	depth := int(dec.BitDepth)
	rate := buf.Format.SampleRate
	if ch < 1 || depth < 1 || depth > maxBitDepth || rate < 1 {
		return monoClip{}, fmt.Errorf("%w: %d channels, %d bits, %d Hz",
			errUnsupportedFormat, ch, depth, rate)
	}

	full := float64(int64(1) << (depth - 1))
	frames := len(buf.Data) / ch
	out := make([]float32, frames)
	for i := range frames {
		sum := 0
		for c := range ch {
			sum += buf.Data[i*ch+c]
		}
		out[i] = float32(float64(sum) / float64(ch) / full)
	}

	return monoClip{
		samples:    out,
		sampleRate: rate,
		channels:   ch,
		bitDepth:   depth,
	}, nil
}
