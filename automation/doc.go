// Package automation implements the P-Lock sequencer: a fixed-length,
// multi-track circular buffer of recorded parameter values with smoothed
// playback.
//
// All tracks share one step cursor, so recorded gestures stay in phase with
// each other. The cursor only moves while recording; playback outside record
// mode holds the step the last recording stopped on.
//
// A Sequencer is driven from the render loop and is not safe for concurrent
// use.
package automation
