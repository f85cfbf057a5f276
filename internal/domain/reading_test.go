package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoder_Decode(t *testing.T) {
	decoder := NewDecoder()

	tests := []struct {
		name    string
		payload string
		want    Reading
	}{
		{
			name:    "canonical field names",
			payload: `{"temperature":36.5,"heartrate":72,"spo2":98}`,
			want:    Reading{Temperature: 36.5, HeartRate: 72, SpO2: 98},
		},
		{
			name:    "heart_rate alias",
			payload: `{"temperature":36.5,"heart_rate":72,"spo2":98}`,
			want:    Reading{Temperature: 36.5, HeartRate: 72, SpO2: 98},
		},
		{
			name:    "canonical key wins over alias",
			payload: `{"heartrate":72,"heart_rate":99}`,
			want:    Reading{HeartRate: 72},
		},
		{
			name:    "missing fields decode as zero",
			payload: `{"spo2":97}`,
			want:    Reading{SpO2: 97},
		},
		{
			name:    "extra fields ignored",
			payload: `{"temperature":37.0,"heartrate":80,"spo2":97,"timestamp":"14:05:33"}`,
			want:    Reading{Temperature: 37.0, HeartRate: 80, SpO2: 97},
		},
		{
			name:    "non-numeric field decodes as zero",
			payload: `{"temperature":"hot","heartrate":72,"spo2":98}`,
			want:    Reading{HeartRate: 72, SpO2: 98},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decoder.Decode([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecoder_DecodeMalformed(t *testing.T) {
	decoder := NewDecoder()

	for _, payload := range []string{"not json", "", "[1,2,3"} {
		_, err := decoder.Decode([]byte(payload))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	}
}

func TestDecoder_CustomFieldNames(t *testing.T) {
	decoder := Decoder{Fields: FieldNames{
		Temperature: "temp_c",
		HeartRate:   []string{"bpm"},
		SpO2:        "oxygen",
	}}

	got, err := decoder.Decode([]byte(`{"temp_c":36.9,"bpm":64,"oxygen":99}`))
	require.NoError(t, err)
	assert.Equal(t, Reading{Temperature: 36.9, HeartRate: 64, SpO2: 99}, got)
}
