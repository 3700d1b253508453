package bridge

import (
	"encoding/json"

	"github.com/tbransom/inputcore/internal/infrastructure/mqtt"
	"github.com/tbransom/inputcore/internal/input"
)

// vibratePayload is the JSON body delivered to the owning driver.
type vibratePayload struct {
	DurationMS int64   `json:"duration_ms"`
	Strength   float64 `json:"strength"`
}

// VibrationForwarder returns a handler that delivers vibration requests
// to the owning driver over MQTT. Requests go to the driver topic, not
// the command topic, so a forwarded request is never re-ingested.
func VibrationForwarder(client MQTTClient, qos byte, logger input.Logger) input.VibrationHandler {
	if logger == nil {
		logger = input.NopLogger()
	}
	topics := mqtt.Topics{}

	return func(d *input.DeviceContext, settings input.VibrationSettings) {
		cfg := d.Config()
		if cfg == nil {
			return
		}

		body, err := json.Marshal(vibratePayload{
			DurationMS: settings.Duration.Milliseconds(),
			Strength:   settings.Strength,
		})
		if err != nil {
			logger.Error("failed to marshal vibration payload", "device_id", d.ID(), "error", err)
			return
		}

		topic := topics.DriverVibrate(cfg.PermanentID)
		if err := client.Publish(topic, body, qos, false); err != nil {
			logger.Error("failed to publish vibration command", "topic", topic, "error", err)
		}
	}
}
