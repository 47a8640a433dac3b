package reactive

import "errors"

var (
	// ErrUnknownTarget is returned for a mapping whose target is not an
	// offsettable catalog parameter.
	ErrUnknownTarget = errors.New("reactive: unknown mapping target")

	// ErrInvalidBand is returned for a negative band index.
	ErrInvalidBand = errors.New("reactive: invalid band index")
)
