package param

import "errors"

var (
	// ErrUnknownParameter is returned for an id missing from the catalog.
	ErrUnknownParameter = errors.New("param: unknown parameter")

	// ErrWrongKind is returned when a setter does not match the parameter's
	// value kind.
	ErrWrongKind = errors.New("param: wrong parameter kind")

	// ErrNoLFO is returned when an LFO value is written to a parameter that
	// has no LFO.
	ErrNoLFO = errors.New("param: parameter has no lfo")
)
