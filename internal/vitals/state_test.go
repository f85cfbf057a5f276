package vitals

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakshayyy10/BioSync/internal/domain"
)

func TestState_ApplySequence(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC))
	state := NewState(60, clock)

	require.Nil(t, state.LastReading())

	first := state.Apply(domain.Reading{Temperature: 36.5, HeartRate: 72, SpO2: 98})
	assert.Equal(t, "10:30:00 AM", first.Timestamp)
	assert.Equal(t, domain.ChangeSet{}, first.Change)

	clock.Advance(time.Second)
	second := state.Apply(domain.Reading{Temperature: 37.0, HeartRate: 80, SpO2: 97})
	assert.Equal(t, "10:30:01 AM", second.Timestamp)
	assert.Equal(t, 1.4, second.Change.Temperature)
	assert.Equal(t, 11.1, second.Change.HeartRate)
	assert.Equal(t, -1.0, second.Change.SpO2)

	require.NotNil(t, state.LastReading())
	assert.Equal(t, 37.0, state.LastReading().Temperature)
	assert.Equal(t, 2, state.Window().Len())
}

func TestState_ZeroReadingFloorsNextChange(t *testing.T) {
	clock := clockwork.NewFakeClock()
	state := NewState(60, clock)

	state.Apply(domain.Reading{})
	sample := state.Apply(domain.Reading{Temperature: 36.5, HeartRate: 72, SpO2: 98})

	// Prior values were all exactly zero, so every change floors to zero.
	assert.Equal(t, domain.ChangeSet{}, sample.Change)
}

func TestState_WindowEviction(t *testing.T) {
	clock := clockwork.NewFakeClock()
	state := NewState(3, clock)

	for i := 1; i <= 5; i++ {
		state.Apply(domain.Reading{HeartRate: float64(i * 10)})
	}

	samples := state.Window().Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, 30.0, samples[0].Reading.HeartRate)
	assert.Equal(t, 50.0, samples[2].Reading.HeartRate)
}
