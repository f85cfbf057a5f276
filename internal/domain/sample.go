package domain

// ChangeSet holds the percent change of each metric relative to the
// immediately preceding reading, rounded to one decimal place. A change
// is 0 when there was no prior reading or the prior value was exactly 0
// (deliberate floor to avoid division by zero).
type ChangeSet struct {
	Temperature float64 `json:"temperature"`
	HeartRate   float64 `json:"heartrate"`
	SpO2        float64 `json:"spo2"`
}

// Sample is a Reading paired with a display timestamp and the percent
// change per metric versus the previous reading seen by the same viewer.
type Sample struct {
	Timestamp string    `json:"timestamp"`
	Reading   Reading   `json:"reading"`
	Change    ChangeSet `json:"change"`
}
