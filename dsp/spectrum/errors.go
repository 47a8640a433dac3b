package spectrum

import "errors"

var (
	// ErrInvalidBlockSize is returned for analysis block sizes that are not a
	// power of two of at least 16 samples.
	ErrInvalidBlockSize = errors.New("spectrum: block size must be a power of two >= 16")

	// ErrInvalidBandCount is returned when a band count below 1 is requested.
	ErrInvalidBandCount = errors.New("spectrum: band count must be >= 1")

	// ErrInvalidBandRange is returned for a band range with Start > End or a
	// negative bound.
	ErrInvalidBandRange = errors.New("spectrum: invalid band range")
)
