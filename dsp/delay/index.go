package delay

import "github.com/cwbudde/algo-feedback/dsp/core"

// Slot arithmetic for a ring of n frame slots addressed by a monotonically
// increasing tick counter. Every function adds n before taking the modulus so
// the result is never negative. A ring length below 1 yields slot 0.

// CurrentSlot returns the slot addressed by tick: tick mod n.
func CurrentSlot(n int, tick uint64) int {
	if n <= 0 {
		return 0
	}
	return int(tick % uint64(n))
}

// ClampDelay limits a delay amount to [0, n-1].
func ClampDelay(n, delay int) int {
	if n <= 0 {
		return 0
	}
	return core.ClampInt(delay, 0, n-1)
}

// FeedbackSlot returns the historical slot the feedback path reads for the
// given delay: (n + current - delay) mod n. delay is clamped to [0, n-1].
func FeedbackSlot(n int, tick uint64, delay int) int {
	if n <= 0 {
		return 0
	}
	d := ClampDelay(n, delay)
	return (n + CurrentSlot(n, tick) - d) % n
}

// PreviousSlot returns the slot holding the immediately preceding composited
// frame: (n + current - 1) mod n.
func PreviousSlot(n int, tick uint64) int {
	if n <= 0 {
		return 0
	}
	return (n + CurrentSlot(n, tick) - 1) % n
}

// WriteSlot returns the slot that receives this tick's composited output.
// It is always the previous slot, so each tick performs exactly one write and
// the ring never grows beyond n frames.
func WriteSlot(n int, tick uint64) int {
	return PreviousSlot(n, tick)
}

// Slots bundles the indices a renderer needs for one tick.
type Slots struct {
	Current  int
	Feedback int
	Previous int
	Write    int
}

// SlotsAt computes all slot indices for a tick and delay amount.
func SlotsAt(n int, tick uint64, delay int) Slots {
	return Slots{
		Current:  CurrentSlot(n, tick),
		Feedback: FeedbackSlot(n, tick, delay),
		Previous: PreviousSlot(n, tick),
		Write:    WriteSlot(n, tick),
	}
}
