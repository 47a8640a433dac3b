// Package param holds the instrument's parameter catalog and the Store that
// composes each parameter's output value.
//
// A composed value draws on up to four sources: the base value written by
// control surfaces, the automation sequencer's smoothed track value, the
// audio offset written by the band mapper and a live LFO value. Base setters
// forward to the sequencer while it is recording; audio offsets and LFO
// values are never recorded.
//
// The Store is owned by the render loop and is not safe for concurrent use.
package param
