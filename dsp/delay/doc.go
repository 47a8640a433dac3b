// Package delay computes slot indices for the recursive video delay line.
//
// The renderer keeps a ring of N historical frames. On tick T it samples the
// feedback texture from [FeedbackSlot] (D frames back), the temporal-filter
// texture from [PreviousSlot], and stores its composited output in
// [WriteSlot]:
//
//	current  = T mod N
//	feedback = (N + current - D) mod N
//	previous = (N + current - 1) mod N
//	write    = previous
//
// The index functions are pure and safe for concurrent use. [Ring] wraps them
// around a slice of slots for callers that want the storage managed too.
package delay
