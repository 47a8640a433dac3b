// Package settings persists an instrument session as one JSON document:
// parameter values, MIDI bindings, automation and the audio-reactive
// configuration.
//
// Loading is tolerant. Unknown parameters and invalid mappings are skipped
// and reported; everything else still applies.
package settings
