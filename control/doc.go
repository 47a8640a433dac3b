// Package control maps MIDI control-change messages onto a [param.Store].
//
// A [Surface] understands a fixed set of transport and toggle controllers
// (recording, video-reactive mode, reset, scaling multipliers, effect
// toggles) and routes every other control change through the store's
// per-parameter bindings. Surfaces are not safe for concurrent use: feed
// them from the goroutine that owns the store.
package control
