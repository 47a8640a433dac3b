// Package spectrum turns raw audio blocks into smoothed, normalized magnitude
// spectra and groups them into frequency bands.
//
// [Analyzer] owns the sample buffer and spectrum arrays. [Analyzer.Push]
// sanitizes one block, measures its RMS level and runs a windowed forward FFT;
// [Analyzer.Process] shapes the magnitudes with a perceptual response curve,
// normalizes them to the frame maximum and applies peak-decay smoothing.
// [Extractor] averages the smoothed spectrum over contiguous bin ranges and
// smooths each band from frame to frame.
//
// Neither type is safe for concurrent use; callers that push from an audio
// thread and process from a render thread guard both with one lock.
package spectrum
