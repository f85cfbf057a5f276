package domain

import (
	"encoding/json"
	"fmt"
)

// Reading is one decoded health-sensor measurement. Readings have no
// identity beyond arrival order and are immutable once constructed.
type Reading struct {
	Temperature float64 `json:"temperature"`
	HeartRate   float64 `json:"heartrate"`
	SpO2        float64 `json:"spo2"`
}

// FieldNames maps metric slots to the JSON keys used on the wire. The
// publisher variants disagree on the heart-rate key (heartrate vs
// heart_rate), so the heart-rate slot carries an ordered alias list and
// the first key present wins.
type FieldNames struct {
	Temperature string
	HeartRate   []string
	SpO2        string
}

// DefaultFieldNames is the canonical field set.
var DefaultFieldNames = FieldNames{
	Temperature: "temperature",
	HeartRate:   []string{"heartrate", "heart_rate"},
	SpO2:        "spo2",
}

// Decoder turns raw feed payloads into Readings.
type Decoder struct {
	Fields FieldNames
}

// NewDecoder returns a Decoder using the canonical field names.
func NewDecoder() Decoder {
	return Decoder{Fields: DefaultFieldNames}
}

// Decode parses a UTF-8 JSON payload into a Reading. Missing or
// non-numeric fields decode as 0, which downstream treats as the
// "no prior value" case. Invalid JSON is an error.
func (d Decoder) Decode(payload []byte) (Reading, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	r := Reading{
		Temperature: numberField(raw, d.Fields.Temperature),
		SpO2:        numberField(raw, d.Fields.SpO2),
	}
	for _, key := range d.Fields.HeartRate {
		if _, ok := raw[key]; ok {
			r.HeartRate = numberField(raw, key)
			break
		}
	}
	return r, nil
}

func numberField(raw map[string]any, key string) float64 {
	v, ok := raw[key].(float64)
	if !ok {
		return 0
	}
	return v
}
