package sensorController

import (
	"testing"

	. "smartdry/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPredictDryingTime(t *testing.T) {
	tests := []struct {
		name            string
		data            ReadingData
		expectedMinutes int
		expectedMode    string
		expectedDry     bool
	}{
		{
			name:            "dry load",
			data:            ReadingData{Moisture: 3, Humidity: 40, Temperature: 22, Weight: 3},
			expectedMinutes: 0,
			expectedMode:    ModeEco,
			expectedDry:     true,
		},
		{
			name:            "moderate load",
			data:            ReadingData{Moisture: 50, Humidity: 40, Temperature: 22, Weight: 4},
			expectedMinutes: 45,
			expectedMode:    ModeNormal,
		},
		{
			name: "humid air stretches the estimate",
			// 50 * 0.9 * 1.15 = 51.75 -> 52
			data:            ReadingData{Moisture: 50, Humidity: 75, Temperature: 22, Weight: 4},
			expectedMinutes: 52,
			expectedMode:    ModeNormal,
		},
		{
			name: "hot drum compresses the estimate",
			// 50 * 0.9 * 0.9 = 40.5 -> 41
			data:            ReadingData{Moisture: 50, Humidity: 40, Temperature: 75, Weight: 4},
			expectedMinutes: 41,
			expectedMode:    ModeNormal,
		},
		{
			name:            "light damp load floors at minimum",
			data:            ReadingData{Moisture: 8, Humidity: 30, Temperature: 22, Weight: 1.5},
			expectedMinutes: 15,
			expectedMode:    ModeEco,
		},
		{
			name:            "soaked heavy load",
			data:            ReadingData{Moisture: 95, Humidity: 80, Temperature: 22, Weight: 8},
			expectedMinutes: 98,
			expectedMode:    ModeHeavyDuty,
		},
		{
			name:            "light load gets delicate",
			data:            ReadingData{Moisture: 45, Humidity: 40, Temperature: 22, Weight: 1},
			expectedMinutes: 41,
			expectedMode:    ModeDelicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction := PredictDryingTime(tt.data)

			assert.Equal(t, tt.expectedDry, prediction.Dry)
			assert.Equal(t, tt.expectedMinutes, prediction.EstimatedMinutes)
			assert.Equal(t, tt.expectedMode, prediction.RecommendedMode)
			assert.Equal(t, tt.data, prediction.BasedOn)
			assert.False(t, prediction.GeneratedAt.IsZero())
		})
	}
}

func TestPredictDryingTime_Recommendations(t *testing.T) {
	prediction := PredictDryingTime(ReadingData{Moisture: 50, Humidity: 40, Temperature: 22, Weight: 4})
	assert.Equal(t, 65.0, prediction.RecommendedTemperature)
	assert.InDelta(t, 1.08, prediction.EstimatedEnergy, 0.001, "Normal with AI assist")

	prediction = PredictDryingTime(ReadingData{Moisture: 95, Humidity: 80, Temperature: 22, Weight: 8})
	assert.Equal(t, 75.0, prediction.RecommendedTemperature)
	assert.InDelta(t, 1.62, prediction.EstimatedEnergy, 0.001, "Heavy Duty with AI assist")

	dry := PredictDryingTime(ReadingData{Moisture: 2})
	assert.Equal(t, 55.0, dry.RecommendedTemperature)
	assert.Zero(t, dry.EstimatedEnergy, "nothing to dry")
}

func TestPredictDryingTime_ClampsToMaximum(t *testing.T) {
	// 100 * 0.9 * 1.15 = 103.5 -> clamped to 120 ceiling only when above it
	prediction := PredictDryingTime(ReadingData{Moisture: 100, Humidity: 90, Temperature: 20, Weight: 9})
	assert.LessOrEqual(t, prediction.EstimatedMinutes, 120)
	assert.GreaterOrEqual(t, prediction.EstimatedMinutes, 15)
}
