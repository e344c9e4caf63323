package cycleController

import (
	"math"
	"time"

	. "smartdry/internal/models"

	"github.com/shopspring/decimal"
)

// Base drying durations in minutes per mode. Unknown modes fall back to
// Normal.
var modeDurations = map[string]int{
	ModeQuick:     30,
	ModeDelicate:  45,
	ModeNormal:    60,
	ModeHeavyDuty: 90,
	ModeEco:       75,
}

// Base energy use in kWh per mode. Unknown modes fall back to Normal.
var modeEnergy = map[string]float64{
	ModeQuick:     0.8,
	ModeDelicate:  0.7,
	ModeNormal:    1.2,
	ModeHeavyDuty: 1.8,
	ModeEco:       1.0,
}

// EstimateDuration returns the estimated total minutes for a cycle. AI
// optimization shaves 15%, eco mode adds 10% back; each adjustment rounds to
// whole minutes before the next applies.
func EstimateDuration(mode string, aiEnabled, ecoMode bool) int {
	base, ok := modeDurations[mode]
	if !ok {
		base = modeDurations[ModeNormal]
	}

	duration := base
	if aiEnabled {
		duration = int(math.Round(float64(duration) * 0.85))
	}
	if ecoMode {
		duration = int(math.Round(float64(duration) * 1.10))
	}

	return duration
}

// EstimateEnergy returns the estimated energy use in kWh, rounded to two
// decimals. Unlike duration, the adjustments compound at full precision and
// round only once at the end.
func EstimateEnergy(mode string, aiEnabled, ecoMode bool) float64 {
	base, ok := modeEnergy[mode]
	if !ok {
		base = modeEnergy[ModeNormal]
	}

	energy := decimal.NewFromFloat(base)
	if aiEnabled {
		energy = energy.Mul(decimal.NewFromFloat(0.90))
	}
	if ecoMode {
		energy = energy.Mul(decimal.NewFromFloat(0.85))
	}

	result, _ := energy.Round(2).Float64()
	return result
}

// Progress derives percent complete from wall-clock time. Time-derived
// progress caps at 99; only an explicit device report can claim 100.
func Progress(startedAt time.Time, totalMinutes int, now time.Time) int {
	if totalMinutes <= 0 {
		return 99
	}

	elapsed := now.Sub(startedAt).Minutes()
	if elapsed <= 0 {
		return 0
	}

	progress := int(math.Round(elapsed / float64(totalMinutes) * 100))
	if progress > 99 {
		return 99
	}

	return progress
}

// TimeRemaining derives whole minutes left, never dropping below 1 while the
// cycle is active. The dashboard shows "1 min remaining" rather than an
// absurd zero on a machine still running.
func TimeRemaining(startedAt time.Time, totalMinutes int, now time.Time) int {
	elapsed := now.Sub(startedAt).Minutes()

	remaining := int(math.Round(float64(totalMinutes) - elapsed))
	if remaining < 1 {
		return 1
	}

	return remaining
}
