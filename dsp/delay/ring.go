package delay

import "fmt"

// Ring is a fixed-length circular buffer of frame slots addressed by a tick
// counter. T is whatever the renderer stores per slot (a texture handle, an
// image, a frame id).
type Ring[T any] struct {
	slots []T
	tick  uint64
}

// New returns a ring with size slots.
func New[T any](size int) (*Ring[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: ring size must be > 0: %d", size)
	}
	return &Ring[T]{slots: make([]T, size)}, nil
}

// Len returns the number of slots.
func (r *Ring[T]) Len() int {
	return len(r.slots)
}

// Tick returns the current tick counter.
func (r *Ring[T]) Tick() uint64 {
	return r.tick
}

// Advance moves the ring to the next tick.
func (r *Ring[T]) Advance() {
	r.tick++
}

// Slots returns the slot indices for the current tick.
func (r *Ring[T]) Slots(delay int) Slots {
	return SlotsAt(len(r.slots), r.tick, delay)
}

// Feedback returns the frame the feedback path reads for delay.
func (r *Ring[T]) Feedback(delay int) T {
	return r.slots[FeedbackSlot(len(r.slots), r.tick, delay)]
}

// Previous returns the most recently stored frame.
func (r *Ring[T]) Previous() T {
	return r.slots[PreviousSlot(len(r.slots), r.tick)]
}

// Store writes this tick's composited frame into the write slot and returns
// the frame it displaced.
func (r *Ring[T]) Store(frame T) T {
	i := WriteSlot(len(r.slots), r.tick)
	old := r.slots[i]
	r.slots[i] = frame
	return old
}

// At returns the frame in slot i, or the zero value for an invalid slot.
func (r *Ring[T]) At(i int) T {
	var zero T
	if i < 0 || i >= len(r.slots) {
		return zero
	}
	return r.slots[i]
}

// Resize changes the slot count. Slots below min(old, new) keep their frames,
// added slots start at the zero value.
func (r *Ring[T]) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("delay: ring size must be > 0: %d", size)
	}
	slots := make([]T, size)
	copy(slots, r.slots)
	r.slots = slots
	return nil
}

// Reset clears every slot and rewinds the tick counter.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.slots {
		r.slots[i] = zero
	}
	r.tick = 0
}
