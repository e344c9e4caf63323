package cycleController

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		aiEnabled bool
		ecoMode   bool
		expected  int
	}{
		{name: "normal base", mode: "Normal", expected: 60},
		{name: "quick base", mode: "Quick", expected: 30},
		{name: "delicate base", mode: "Delicate", expected: 45},
		{name: "heavy duty base", mode: "Heavy Duty", expected: 90},
		{name: "eco base", mode: "Eco", expected: 75},
		{name: "quick with ai", mode: "Quick", aiEnabled: true, expected: 26},
		{name: "normal with ai", mode: "Normal", aiEnabled: true, expected: 51},
		{name: "normal with eco", mode: "Normal", ecoMode: true, expected: 66},
		{name: "eco mode flag on eco program", mode: "Eco", ecoMode: true, expected: 83},
		{
			// 90 * 0.85 = 76.5 -> 77, then 77 * 1.10 = 84.7 -> 85; each
			// adjustment rounds before the next applies
			name:      "heavy duty with ai and eco",
			mode:      "Heavy Duty",
			aiEnabled: true,
			ecoMode:   true,
			expected:  85,
		},
		{name: "unknown mode falls back to normal", mode: "Turbo", expected: 60},
		{name: "unknown mode with ai", mode: "Turbo", aiEnabled: true, expected: 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateDuration(tt.mode, tt.aiEnabled, tt.ecoMode))
		})
	}
}

func TestEstimateEnergy(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		aiEnabled bool
		ecoMode   bool
		expected  float64
	}{
		{name: "normal base", mode: "Normal", expected: 1.2},
		{name: "quick base", mode: "Quick", expected: 0.8},
		{name: "delicate base", mode: "Delicate", expected: 0.7},
		{name: "heavy duty base", mode: "Heavy Duty", expected: 1.8},
		{name: "eco base", mode: "Eco", expected: 1.0},
		{name: "quick with ai", mode: "Quick", aiEnabled: true, expected: 0.72},
		{name: "normal with ai", mode: "Normal", aiEnabled: true, expected: 1.08},
		{name: "delicate with eco", mode: "Delicate", ecoMode: true, expected: 0.6},
		{
			// 1.8 * 0.90 * 0.85 = 1.377; full precision until the final
			// 2-decimal rounding
			name:      "heavy duty with ai and eco",
			mode:      "Heavy Duty",
			aiEnabled: true,
			ecoMode:   true,
			expected:  1.38,
		},
		{name: "eco with ai and eco", mode: "Eco", aiEnabled: true, ecoMode: true, expected: 0.77},
		{name: "unknown mode falls back to normal", mode: "Turbo", aiEnabled: true, expected: 1.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EstimateEnergy(tt.mode, tt.aiEnabled, tt.ecoMode), 0.0001)
		})
	}
}

func TestProgress(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		totalMinutes int
		elapsed      time.Duration
		expected     int
	}{
		{name: "not started", totalMinutes: 30, elapsed: 0, expected: 0},
		{name: "halfway", totalMinutes: 30, elapsed: 15 * time.Minute, expected: 50},
		{name: "rounds to nearest", totalMinutes: 30, elapsed: 29 * time.Minute, expected: 97},
		{name: "caps at 99 when elapsed equals total", totalMinutes: 30, elapsed: 30 * time.Minute, expected: 99},
		{name: "caps at 99 long after total", totalMinutes: 30, elapsed: 4 * time.Hour, expected: 99},
		{name: "clock skew before start reads zero", totalMinutes: 30, elapsed: -5 * time.Minute, expected: 0},
		{name: "zero total never divides", totalMinutes: 0, elapsed: time.Minute, expected: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := start.Add(tt.elapsed)
			assert.Equal(t, tt.expected, Progress(start, tt.totalMinutes, now))
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		totalMinutes int
		elapsed      time.Duration
		expected     int
	}{
		{name: "full duration at start", totalMinutes: 30, elapsed: 0, expected: 30},
		{name: "halfway", totalMinutes: 30, elapsed: 15 * time.Minute, expected: 15},
		{name: "floors at 1 near the end", totalMinutes: 30, elapsed: 29*time.Minute + 50*time.Second, expected: 1},
		{name: "floors at 1 past the estimate", totalMinutes: 30, elapsed: time.Hour, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := start.Add(tt.elapsed)
			assert.Equal(t, tt.expected, TimeRemaining(start, tt.totalMinutes, now))
		})
	}
}
