package vitals

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lakshayyy10/BioSync/internal/domain"
)

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		next float64
		want float64
	}{
		{"ten percent up", 20.0, 22.0, 10.0},
		{"ten percent down", 20.0, 18.0, -10.0},
		{"unchanged", 72.0, 72.0, 0.0},
		{"rounded to one decimal", 36.5, 37.0, 1.4},
		{"heart rate jump", 72.0, 80.0, 11.1},
		{"spo2 dip", 98.0, 97.0, -1.0},
		{"zero previous floors to zero", 0.0, 55.0, 0.0},
		{"zero previous negative next", 0.0, -3.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChangePercent(tt.prev, tt.next))
		})
	}
}

func TestChangePercent_NaNPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(ChangePercent(1.0, math.NaN())))
	// NaN as previous value is not the zero floor; it propagates too.
	assert.True(t, math.IsNaN(ChangePercent(math.NaN(), 1.0)))
}

func TestNext_FirstReadingHasZeroChange(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	sample := Next(nil, domain.Reading{Temperature: 36.5, HeartRate: 72, SpO2: 98}, now)

	assert.Equal(t, "03:09:26 PM", sample.Timestamp)
	assert.Equal(t, domain.ChangeSet{}, sample.Change)
	assert.Equal(t, 36.5, sample.Reading.Temperature)
}

func TestNext_ComputesChangePerMetric(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 1, 0, time.UTC)
	prev := domain.Reading{Temperature: 36.5, HeartRate: 72, SpO2: 98}

	sample := Next(&prev, domain.Reading{Temperature: 37.0, HeartRate: 80, SpO2: 97}, now)

	assert.Equal(t, "09:00:01 AM", sample.Timestamp)
	assert.Equal(t, 1.4, sample.Change.Temperature)
	assert.Equal(t, 11.1, sample.Change.HeartRate)
	assert.Equal(t, -1.0, sample.Change.SpO2)
}
