package util

import "sync/atomic"

// AtomicBool is a latch-friendly bool that one goroutine can flip while
// another reads it.
type AtomicBool struct {
	v atomic.Bool
}

// NewAtomicBool returns an AtomicBool holding initial.
func NewAtomicBool(initial bool) *AtomicBool {
	b := &AtomicBool{}
	b.v.Store(initial)
	return b
}

// Get returns the current value.
func (b *AtomicBool) Get() bool {
	return b.v.Load()
}

// Set stores value.
func (b *AtomicBool) Set(value bool) {
	b.v.Store(value)
}
