package simulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBetween(t *testing.T) {
	sim := New(1)
	for range 100 {
		v := sim.RandomBetween(10, 20)
		assert.GreaterOrEqual(t, v, 10.0)
		assert.Less(t, v, 20.0)
	}
}

func TestRandomNormal(t *testing.T) {
	sim := New(1)

	var sum float64
	const samples = 10000
	for range samples {
		sum += sim.RandomNormal(50, 5)
	}
	mean := sum / samples

	assert.InDelta(t, 50, mean, 0.5, "sample mean tracks the distribution mean")
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.38, RoundTo(1.37835, 2))
	assert.Equal(t, 77.0, RoundTo(76.5, 0))
	assert.Equal(t, 45.6, RoundTo(45.55, 1))
}

func TestGenerateDeviceID(t *testing.T) {
	sim := New(42)
	for range 50 {
		id := sim.GenerateDeviceID()
		require.True(t, strings.HasPrefix(id, "SD-"), id)
		assert.Len(t, id, 7)
	}
}

func TestInitialReading(t *testing.T) {
	sim := New(7)
	reading := sim.InitialReading()

	assert.GreaterOrEqual(t, reading.Moisture, 65.0)
	assert.Less(t, reading.Moisture, 95.0)
	assert.GreaterOrEqual(t, reading.Humidity, 20.0)
	assert.LessOrEqual(t, reading.Humidity, 95.0)
	assert.Greater(t, reading.Weight, 0.0)
}

func TestNextReading_TrendsDry(t *testing.T) {
	sim := New(7)
	reading := sim.InitialReading()
	start := reading.Moisture

	for range 30 {
		next := sim.NextReading(reading, 65)
		assert.LessOrEqual(t, next.Moisture, reading.Moisture, "moisture never rises mid-cycle")
		assert.GreaterOrEqual(t, next.Moisture, 0.0)
		assert.LessOrEqual(t, next.Humidity, 100.0)
		reading = next
	}

	assert.Less(t, reading.Moisture, start, "load dries over the cycle")
	assert.Greater(t, reading.Temperature, 40.0, "drum heats toward the setpoint")
}
