package vitals

import (
	"github.com/jonboulle/clockwork"

	"github.com/lakshayyy10/BioSync/internal/domain"
)

// State is one viewer's streaming state: the last reading seen and the
// rolling window of samples. Lifecycle: no history until the first
// reading, then 1..capacity samples, discarded with the viewer.
type State struct {
	clock       clockwork.Clock
	lastReading *domain.Reading
	window      *Window
}

// NewState returns an empty viewer state with the given window capacity.
func NewState(capacity int, clock clockwork.Clock) *State {
	return &State{
		clock:  clock,
		window: NewWindow(capacity),
	}
}

// Apply folds a new reading into the state and returns the resulting
// sample. The first reading produces a sample with zero change.
func (s *State) Apply(r domain.Reading) domain.Sample {
	sample := Next(s.lastReading, r, s.clock.Now())
	s.window.Append(sample)
	s.lastReading = &r
	return sample
}

// Window returns the rolling window backing this state.
func (s *State) Window() *Window {
	return s.window
}

// LastReading returns the most recent reading, or nil before the first.
func (s *State) LastReading() *domain.Reading {
	return s.lastReading
}
