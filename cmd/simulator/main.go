package main

import (
	"flag"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartdry/config"
	"smartdry/internal/logger"
	"smartdry/internal/services"
	"smartdry/internal/simulator"
)

func main() {
	log := logger.New("simulator")

	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	deviceID := flag.String("device", "", "device ID to report as (generated when empty)")
	cycleID := flag.Int("cycle", 0, "cycle ID to report progress for (0 = sensor readings only)")
	setpoint := flag.Float64("setpoint", 65, "target drum temperature")
	interval := flag.Duration("interval", 5*time.Second, "delay between reports")
	ticks := flag.Int("ticks", 24, "number of reports before the run completes")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	sim := simulator.New(*seed)
	if *deviceID == "" {
		*deviceID = sim.GenerateDeviceID()
	}

	mqttService, err := services.NewMQTTService(config.Config{
		MQTTEnabled:   true,
		MQTTBrokerURL: *broker,
		MQTTClientID:  "smartdry-simulator-" + *deviceID,
	})
	if err != nil {
		log.Er("failed to connect to MQTT broker", err, "broker", *broker)
		os.Exit(1)
	}
	defer mqttService.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Simulating dryer",
		"deviceID", *deviceID, "cycleID", *cycleID, "ticks", *ticks, "interval", *interval)

	reading := sim.InitialReading()
	for tick := 1; tick <= *ticks; tick++ {
		select {
		case <-stop:
			log.Info("Simulation interrupted")
			return
		default:
		}

		if err := mqttService.PublishSensorReading(*deviceID, reading); err != nil {
			log.Er("failed to publish sensor reading", err)
		}

		if *cycleID > 0 {
			progress := int(math.Round(float64(tick) / float64(*ticks) * 100))
			if progress > 100 {
				progress = 100
			}
			report := services.ProgressReport{Progress: progress, Sensors: &reading}
			if err := mqttService.PublishProgress(*deviceID, *cycleID, report); err != nil {
				log.Er("failed to publish progress", err)
			}
		}

		log.Info("Published report",
			"tick", tick, "moisture", reading.Moisture, "temperature", reading.Temperature)

		reading = sim.NextReading(reading, *setpoint)

		if tick < *ticks {
			time.Sleep(*interval)
		}
	}

	log.Info("Simulation complete", "deviceID", *deviceID)
}
