package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smartdry/config"
	"smartdry/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	sensorTopicFilter   = "smartdry/+/sensors"
	progressTopicFilter = "smartdry/+/cycles/+/progress"
)

// SensorHandler receives decoded sensor payloads from
// smartdry/<deviceId>/sensors.
type SensorHandler func(deviceID string, data models.ReadingData) error

// ProgressHandler receives decoded progress reports from
// smartdry/<deviceId>/cycles/<cycleId>/progress.
type ProgressHandler func(deviceID string, cycleID int, report ProgressReport) error

// ProgressReport is the payload a dryer publishes while running. Sensors is
// optional; when present the readings ride along with the progress update.
type ProgressReport struct {
	Progress int                 `json:"progress"`
	Sensors  *models.ReadingData `json:"sensors,omitempty"`
}

// MQTTService bridges the broker to the ingest and cycle controllers. It is
// nil-safe: when MQTT is disabled in config, New returns nil and every method
// is a no-op.
type MQTTService struct {
	client          mqtt.Client
	log             logger.Logger
	sensorHandler   SensorHandler
	progressHandler ProgressHandler
}

func NewMQTTService(cfg config.Config) (*MQTTService, error) {
	log := logger.New("MQTTService")

	if !cfg.MQTTEnabled {
		log.Info("MQTT disabled, device telemetry ingest limited to HTTP")
		return nil, nil
	}

	service := &MQTTService{log: log}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	opts.SetClientID(cfg.MQTTClientID)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
	}
	if cfg.MQTTPassword != "" {
		opts.SetPassword(cfg.MQTTPassword)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = service.connectHandler
	opts.OnConnectionLost = service.connectionLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, log.Err("failed to connect to MQTT broker", token.Error(), "broker", cfg.MQTTBrokerURL)
	}

	service.client = client
	log.Info("Connected to MQTT broker", "broker", cfg.MQTTBrokerURL)
	return service, nil
}

// RegisterHandlers wires the controllers in and subscribes to the device
// topics. Must be called before devices start publishing; reconnects
// resubscribe automatically via the connect handler.
func (ms *MQTTService) RegisterHandlers(sensor SensorHandler, progress ProgressHandler) error {
	if ms == nil {
		return nil
	}

	ms.sensorHandler = sensor
	ms.progressHandler = progress

	return ms.subscribe()
}

func (ms *MQTTService) subscribe() error {
	log := ms.log.Function("subscribe")

	topics := map[string]byte{
		sensorTopicFilter:   1,
		progressTopicFilter: 1,
	}

	if token := ms.client.SubscribeMultiple(topics, ms.messageHandler); token.Wait() &&
		token.Error() != nil {
		return log.Err("failed to subscribe to device topics", token.Error())
	}

	log.Info("Subscribed to device topics", "sensor", sensorTopicFilter, "progress", progressTopicFilter)
	return nil
}

func (ms *MQTTService) connectHandler(client mqtt.Client) {
	ms.log.Info("Connected to MQTT broker")

	// Resubscribe after reconnects; harmless on the initial connect when
	// handlers are not registered yet.
	if ms.sensorHandler != nil || ms.progressHandler != nil {
		if err := ms.subscribe(); err != nil {
			ms.log.Warn("failed to resubscribe after reconnect", "error", err)
		}
	}
}

func (ms *MQTTService) connectionLostHandler(client mqtt.Client, err error) {
	ms.log.Warn("Connection to MQTT broker lost", "error", err)
}

// messageHandler dispatches on topic shape:
//
//	smartdry/<deviceId>/sensors
//	smartdry/<deviceId>/cycles/<cycleId>/progress
func (ms *MQTTService) messageHandler(client mqtt.Client, msg mqtt.Message) {
	log := ms.log.Function("messageHandler")

	parts := strings.Split(msg.Topic(), "/")
	if len(parts) < 3 || parts[0] != "smartdry" {
		log.Warn("ignoring message from unexpected topic", "topic", msg.Topic())
		return
	}
	deviceID := parts[1]

	switch {
	case len(parts) == 3 && parts[2] == "sensors":
		if ms.sensorHandler == nil {
			return
		}

		var data models.ReadingData
		if err := json.Unmarshal(msg.Payload(), &data); err != nil {
			log.Warn("malformed sensor payload", "topic", msg.Topic(), "error", err)
			return
		}

		if err := ms.sensorHandler(deviceID, data); err != nil {
			log.Warn("sensor handler failed", "deviceID", deviceID, "error", err)
		}

	case len(parts) == 5 && parts[2] == "cycles" && parts[4] == "progress":
		if ms.progressHandler == nil {
			return
		}

		cycleID, err := strconv.Atoi(parts[3])
		if err != nil {
			log.Warn("malformed cycle ID in topic", "topic", msg.Topic())
			return
		}

		var report ProgressReport
		if err := json.Unmarshal(msg.Payload(), &report); err != nil {
			log.Warn("malformed progress payload", "topic", msg.Topic(), "error", err)
			return
		}

		if err := ms.progressHandler(deviceID, cycleID, report); err != nil {
			log.Warn("progress handler failed", "deviceID", deviceID, "cycleID", cycleID, "error", err)
		}

	default:
		log.Warn("no handler for topic", "topic", msg.Topic())
	}
}

// PublishSensorReading publishes a sensor payload on behalf of a device. Used
// by the simulator; real hardware publishes directly.
func (ms *MQTTService) PublishSensorReading(deviceID string, data models.ReadingData) error {
	if ms == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return ms.log.Function("PublishSensorReading").
			Err("failed to marshal sensor payload", err, "deviceID", deviceID)
	}

	topic := fmt.Sprintf("smartdry/%s/sensors", deviceID)
	return ms.publish(topic, payload)
}

// PublishProgress publishes a cycle progress report on behalf of a device.
func (ms *MQTTService) PublishProgress(deviceID string, cycleID int, report ProgressReport) error {
	if ms == nil {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return ms.log.Function("PublishProgress").
			Err("failed to marshal progress payload", err, "deviceID", deviceID)
	}

	topic := fmt.Sprintf("smartdry/%s/cycles/%d/progress", deviceID, cycleID)
	return ms.publish(topic, payload)
}

func (ms *MQTTService) publish(topic string, payload []byte) error {
	log := ms.log.Function("publish")

	token := ms.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return log.ErrMsg("timeout publishing to topic " + topic)
	}
	if token.Error() != nil {
		return log.Err("failed to publish", token.Error(), "topic", topic)
	}

	return nil
}

func (ms *MQTTService) Close() {
	if ms == nil || ms.client == nil {
		return
	}

	if ms.client.IsConnected() {
		ms.client.Disconnect(250)
	}
	ms.log.Info("MQTT client disconnected")
}
