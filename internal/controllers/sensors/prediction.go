package sensorController

import (
	"math"
	"time"

	cycleController "smartdry/internal/controllers/cycles"
	. "smartdry/internal/models"
)

const (
	// A load at or below this moisture reads as already dry.
	dryMoistureThreshold = 5.0

	minPredictedMinutes = 15
	maxPredictedMinutes = 120
)

// DryingPrediction is the dashboard estimate for drying the current load
// based on the latest sensor sample.
type DryingPrediction struct {
	DeviceID               string      `json:"deviceId"`
	Dry                    bool        `json:"dry"`
	EstimatedMinutes       int         `json:"estimatedMinutes"`
	RecommendedMode        string      `json:"recommendedMode"`
	RecommendedTemperature float64     `json:"recommendedTemperature"`
	EstimatedEnergy        float64     `json:"estimatedEnergy"`
	BasedOn                ReadingData `json:"basedOn"`
	GeneratedAt            time.Time   `json:"generatedAt"`
}

// PredictDryingTime maps moisture to minutes at roughly 0.9 min per percent,
// stretched by humid ambient air and compressed by a hot drum, clamped to
// 15-120 minutes. Loads at or under the dry threshold report zero.
func PredictDryingTime(data ReadingData) DryingPrediction {
	prediction := DryingPrediction{
		BasedOn:     data,
		GeneratedAt: time.Now(),
	}

	if data.Moisture <= dryMoistureThreshold {
		prediction.Dry = true
		prediction.EstimatedMinutes = 0
		prediction.RecommendedMode = ModeEco
		prediction.RecommendedTemperature = recommendTemperature(ModeEco)
		return prediction
	}

	minutes := data.Moisture * 0.9
	if data.Humidity > 60 {
		minutes *= 1.15
	}
	if data.Temperature > 70 {
		minutes *= 0.9
	}

	estimated := int(math.Round(minutes))
	if estimated < minPredictedMinutes {
		estimated = minPredictedMinutes
	}
	if estimated > maxPredictedMinutes {
		estimated = maxPredictedMinutes
	}

	prediction.EstimatedMinutes = estimated
	prediction.RecommendedMode = recommendMode(data)
	prediction.RecommendedTemperature = recommendTemperature(prediction.RecommendedMode)
	prediction.EstimatedEnergy = cycleController.EstimateEnergy(prediction.RecommendedMode, true, false)
	return prediction
}

func recommendTemperature(mode string) float64 {
	switch mode {
	case ModeHeavyDuty:
		return 75
	case ModeQuick:
		return 70
	case ModeDelicate:
		return 50
	case ModeEco:
		return 55
	default:
		return 65
	}
}

func recommendMode(data ReadingData) string {
	switch {
	case data.Moisture > 70 && data.Weight > 6:
		return ModeHeavyDuty
	case data.Moisture < 30:
		return ModeEco
	case data.Weight < 2:
		return ModeDelicate
	default:
		return ModeNormal
	}
}
