// Package simulator generates plausible dryer fleet data: device identities,
// sensor readings, and the reading drift of a running cycle. Used by the
// simulator command and the development seed.
package simulator

import (
	"fmt"
	"math"
	"math/rand"

	"smartdry/internal/models"
)

var deviceNames = []string{
	"Basement Dryer",
	"Garage Dryer",
	"Laundry Room Dryer",
	"Upstairs Dryer",
	"Utility Closet Dryer",
	"Workshop Dryer",
}

var deviceModels = []string{
	"SmartDry 2000",
	"SmartDry 3000",
	"SmartDry 3000 Pro",
	"SmartDry Compact",
}

var modes = []string{
	models.ModeQuick,
	models.ModeDelicate,
	models.ModeNormal,
	models.ModeHeavyDuty,
	models.ModeEco,
}

type Simulator struct {
	rng *rand.Rand
}

func New(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// RandomBetween returns a uniform value in [min, max).
func (s *Simulator) RandomBetween(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// RandomNormal draws from a normal distribution via the Box-Muller transform.
func (s *Simulator) RandomNormal(mean, stddev float64) float64 {
	u1 := s.rng.Float64()
	u2 := s.rng.Float64()
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stddev*z
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// GenerateDeviceID produces hardware-style identifiers like "SD-1042".
func (s *Simulator) GenerateDeviceID() string {
	return fmt.Sprintf("SD-%d", 1000+s.rng.Intn(9000))
}

func (s *Simulator) RandomDeviceName() string {
	return deviceNames[s.rng.Intn(len(deviceNames))]
}

func (s *Simulator) RandomModel() string {
	return deviceModels[s.rng.Intn(len(deviceModels))]
}

func (s *Simulator) RandomMode() string {
	return modes[s.rng.Intn(len(modes))]
}

// InitialReading is the state of a freshly loaded drum: wet clothes at room
// temperature.
func (s *Simulator) InitialReading() models.ReadingData {
	return models.ReadingData{
		Temperature: RoundTo(s.RandomNormal(22, 2), 1),
		Humidity:    RoundTo(clamp(s.RandomNormal(55, 8), 20, 95), 1),
		Moisture:    RoundTo(s.RandomBetween(65, 95), 1),
		Weight:      RoundTo(s.RandomBetween(2, 8), 2),
	}
}

// NextReading advances a running cycle by one tick: moisture and weight trend
// down, drum temperature climbs toward the setpoint, humidity tracks the
// remaining moisture. Values never leave their valid ranges.
func (s *Simulator) NextReading(prev models.ReadingData, setpoint float64) models.ReadingData {
	moisture := prev.Moisture - math.Abs(s.RandomNormal(2.5, 1))
	temperature := prev.Temperature + (setpoint-prev.Temperature)*0.2 + s.RandomNormal(0, 0.5)
	humidity := moisture*0.6 + s.RandomNormal(20, 3)
	weight := prev.Weight - math.Abs(s.RandomNormal(0.02, 0.01))

	return models.ReadingData{
		Temperature: RoundTo(clamp(temperature, 15, setpoint+5), 1),
		Humidity:    RoundTo(clamp(humidity, 0, 100), 1),
		Moisture:    RoundTo(clamp(moisture, 0, 100), 1),
		Weight:      RoundTo(math.Max(weight, 0.1), 2),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
