package stress

import (
	"sync/atomic"

	"github.com/airmon1101/kiln/internal/domain"
)

// StateBox publishes the current StressState to the worker pool.
// Exactly one writer (the controller) and many readers (the workers and
// the monitor). The pointer swap guarantees readers never observe a torn
// phase/intensity pair; staleness is bounded by one worker iteration.
type StateBox struct {
	ptr atomic.Pointer[domain.StressState]
}

// NewStateBox seeds the box with the initial state: phase 1, intensity 1.
func NewStateBox() *StateBox {
	b := &StateBox{}
	b.Publish(domain.StressState{Phase: 1, Intensity: 1})
	return b
}

// Publish replaces the current state with an immutable snapshot.
func (b *StateBox) Publish(s domain.StressState) {
	b.ptr.Store(&s)
}

// Load returns the most recently published state.
func (b *StateBox) Load() domain.StressState {
	return *b.ptr.Load()
}
