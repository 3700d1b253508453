package bridge

import (
	"encoding/json"
	"time"

	"github.com/tbransom/inputcore/internal/infrastructure/mqtt"
	"github.com/tbransom/inputcore/internal/input"
)

// StatusPayload is the JSON body published on a device status topic.
// Status messages are retained so late subscribers see the current state.
type StatusPayload struct {
	DeviceID          int    `json:"device_id"`
	PermanentID       string `json:"permanent_id"`
	DisplayName       string `json:"display_name"`
	ConnectionState   string `json:"connection_state"`
	Connected         bool   `json:"connected"`
	ConnectionChanged bool   `json:"connection_changed"`
	Reconfigured      bool   `json:"reconfigured"`
	CanVibrate        bool   `json:"can_vibrate"`
	Channels          int    `json:"channels"`
	Timestamp         string `json:"timestamp"`
}

// AxisPayload is the JSON body published for each accepted channel sample.
type AxisPayload struct {
	DeviceID    int     `json:"device_id"`
	PermanentID string  `json:"permanent_id"`
	Channel     int     `json:"channel"`
	Name        string  `json:"name,omitempty"`
	Value       float64 `json:"value"`
	Timestamp   string  `json:"timestamp"`
}

// Publisher republishes device notifications over MQTT. It implements
// both listener interfaces and is normally attached hub-wide so every
// registered device is covered.
type Publisher struct {
	client MQTTClient
	topics mqtt.Topics
	logger input.Logger
}

// NewPublisher creates a publisher writing through the given client.
func NewPublisher(client MQTTClient, logger input.Logger) *Publisher {
	if logger == nil {
		logger = input.NopLogger()
	}
	return &Publisher{client: client, logger: logger}
}

// OnStatusChanged publishes a retained status message for the device.
func (p *Publisher) OnStatusChanged(d *input.DeviceContext, ev input.StatusEvent) {
	cfg := d.Config()
	if cfg == nil {
		return
	}

	state := d.ConnectionState()
	payload := StatusPayload{
		DeviceID:          d.ID(),
		PermanentID:       cfg.PermanentID,
		DisplayName:       cfg.DisplayName,
		ConnectionState:   state.String(),
		Connected:         state.IsConnected(),
		ConnectionChanged: ev.ConnectionChanged,
		Reconfigured:      ev.Reconfigured,
		CanVibrate:        cfg.CanVibrate,
		Channels:          cfg.ChannelCount(),
		Timestamp:         time.Now().UTC().Format(time.RFC3339Nano),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal status payload", "device_id", d.ID(), "error", err)
		return
	}

	topic := p.topics.DeviceStatus(cfg.PermanentID)
	if err := p.client.Publish(topic, body, 1, true); err != nil {
		p.logger.Error("failed to publish device status", "topic", topic, "error", err)
	}
}

// OnChannelData publishes the accepted sample on the device's axis topic.
func (p *Publisher) OnChannelData(d *input.DeviceContext, ev input.ChannelEvent) {
	if ev.Config == nil {
		return
	}

	payload := AxisPayload{
		DeviceID:    d.ID(),
		PermanentID: ev.Config.PermanentID,
		Channel:     ev.Index,
		Value:       ev.Sample.Value,
		Timestamp:   ev.Sample.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if ch, ok := ev.Config.ChannelAt(ev.Index); ok {
		payload.Name = ch.Name
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal axis payload", "device_id", d.ID(), "error", err)
		return
	}

	topic := p.topics.DeviceAxis(ev.Config.PermanentID, ev.Index)
	if err := p.client.Publish(topic, body, 0, false); err != nil {
		p.logger.Error("failed to publish channel sample", "topic", topic, "error", err)
	}
}
