package vitals

import (
	"math"
	"time"

	"github.com/lakshayyy10/BioSync/internal/domain"
)

// timestampLayout matches the dashboard's 12-hour clock display.
const timestampLayout = "03:04:05 PM"

// ChangePercent returns the signed percent difference between prev and
// next, rounded to one decimal place. It returns 0 when prev is exactly 0
// so a stream that starts from "no signal" never divides by zero. NaN
// inputs propagate as NaN rather than raising.
func ChangePercent(prev, next float64) float64 {
	if prev == 0 {
		return 0
	}
	return math.Round((next-prev)/prev*100*10) / 10
}

// Next is the per-reading reducer. Given the previous reading (nil before
// the first message) and a new reading, it produces the Sample to append
// to the viewer's window. Deterministic given its inputs and now; it has
// no failure conditions.
func Next(prev *domain.Reading, next domain.Reading, now time.Time) domain.Sample {
	s := domain.Sample{
		Timestamp: now.Format(timestampLayout),
		Reading:   next,
	}
	if prev == nil {
		return s
	}
	s.Change = domain.ChangeSet{
		Temperature: ChangePercent(prev.Temperature, next.Temperature),
		HeartRate:   ChangePercent(prev.HeartRate, next.HeartRate),
		SpO2:        ChangePercent(prev.SpO2, next.SpO2),
	}
	return s
}
