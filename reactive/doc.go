// Package reactive owns the audio-reactive subsystem: it feeds device blocks
// through a spectrum analyzer and band extractor, then maps band energies
// onto parameter audio offsets.
//
// Two threads meet in a [Manager]. The audio device thread calls
// [Manager.PushAudioBlock]; the render loop calls [Manager.Update]. Both hold
// one mutex while touching analyzer state. Update releases it before the
// [Mapper] writes offsets, so no parameter write ever happens under the lock.
package reactive
