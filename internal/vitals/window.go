package vitals

import "github.com/lakshayyy10/BioSync/internal/domain"

// DefaultCapacity is the rolling-window size used when none is configured.
const DefaultCapacity = 60

// Window is a fixed-capacity ring buffer of Samples ordered by arrival.
// Appending to a full window evicts the oldest sample. A Window is owned
// by exactly one viewer and is not safe for concurrent use.
type Window struct {
	samples []domain.Sample
	head    int
	size    int
}

// NewWindow returns an empty window with the given capacity. Capacities
// below 1 fall back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Window{samples: make([]domain.Sample, capacity)}
}

// Append adds a sample, evicting the oldest one if the window is full.
func (w *Window) Append(s domain.Sample) {
	tail := (w.head + w.size) % len(w.samples)
	w.samples[tail] = s
	if w.size < len(w.samples) {
		w.size++
		return
	}
	w.head = (w.head + 1) % len(w.samples)
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return w.size
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.samples)
}

// Samples returns the held samples oldest first. The returned slice is a
// copy and safe for the caller to retain.
func (w *Window) Samples() []domain.Sample {
	out := make([]domain.Sample, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.samples[(w.head+i)%len(w.samples)]
	}
	return out
}

// Latest returns the most recent sample, or false if the window is empty.
func (w *Window) Latest() (domain.Sample, bool) {
	if w.size == 0 {
		return domain.Sample{}, false
	}
	return w.samples[(w.head+w.size-1)%len(w.samples)], true
}
