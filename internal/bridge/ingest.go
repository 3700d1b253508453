package bridge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tbransom/inputcore/internal/hub"
	"github.com/tbransom/inputcore/internal/infrastructure/mqtt"
	"github.com/tbransom/inputcore/internal/input"
)

// connectionMessage is the raw connection-state frame published by drivers.
type connectionMessage struct {
	State string `json:"state"`
}

// configMessage describes a device reconfiguration published by drivers.
type configMessage struct {
	DisplayName string           `json:"display_name"`
	Type        string           `json:"type"`
	CanVibrate  bool             `json:"can_vibrate"`
	Channels    []channelMessage `json:"channels"`
}

type channelMessage struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Accuracy float64 `json:"accuracy"`
}

// axisMessage is a single channel value. Timestamp is optional; when
// absent the sample is stamped on arrival.
type axisMessage struct {
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// frameMessage is a combined frame: an optional connection state plus a
// set of channel values keyed by channel index. The whole frame is
// applied as one update so consumers receive a single notification.
type frameMessage struct {
	Connection string             `json:"connection,omitempty"`
	Axes       map[string]float64 `json:"axes"`
	Timestamp  string             `json:"timestamp,omitempty"`
}

// vibrateMessage is a vibration command.
type vibrateMessage struct {
	DurationMS int64   `json:"duration_ms"`
	Strength   float64 `json:"strength"`
}

// Ingest subscribes to raw driver topics and applies them to the matching
// device context. Devices are matched by the permanent ID embedded in the
// topic; frames for unknown devices are dropped with a debug log, since
// retained messages can outlive a registration.
type Ingest struct {
	devices *hub.Hub
	client  MQTTClient
	topics  mqtt.Topics
	qos     byte
	logger  input.Logger
}

// NewIngest creates an ingest bridge reading from the given client.
func NewIngest(devices *hub.Hub, client MQTTClient, qos byte, logger input.Logger) *Ingest {
	if logger == nil {
		logger = input.NopLogger()
	}
	return &Ingest{devices: devices, client: client, qos: qos, logger: logger}
}

// Start subscribes to all raw and command topics. Subscriptions are
// restored automatically by the MQTT client on reconnect.
func (i *Ingest) Start() error {
	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{i.topics.AllRawConnections(), i.handleConnection},
		{i.topics.AllRawConfigs(), i.handleConfig},
		{i.topics.AllRawAxes(), i.handleAxis},
		{i.topics.AllRawFrames(), i.handleFrame},
		{i.topics.AllVibrateCommands(), i.handleVibrate},
	}
	for _, s := range subs {
		if err := i.client.Subscribe(s.topic, i.qos, s.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}
	}
	i.logger.Info("ingest bridge started", "subscriptions", len(subs))
	return nil
}

// device resolves the context for a raw topic. The permanent ID is the
// third segment on every topic the bridge subscribes to.
func (i *Ingest) device(topic string) (*input.DeviceContext, string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 {
		return nil, "", false
	}
	pid := parts[2]
	d, ok := i.devices.DeviceByPermanentID(pid)
	if !ok {
		i.logger.Debug("frame for unknown device dropped", "permanent_id", pid, "topic", topic)
		return nil, pid, false
	}
	return d, pid, true
}

func (i *Ingest) handleConnection(topic string, payload []byte) error {
	d, _, ok := i.device(topic)
	if !ok {
		return nil
	}

	var msg connectionMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("parse connection message: %w", err)
	}
	if err := d.SetConnectionState(input.ConnectionState(msg.State)); err != nil {
		return fmt.Errorf("apply connection state %q: %w", msg.State, err)
	}
	return nil
}

func (i *Ingest) handleConfig(topic string, payload []byte) error {
	d, pid, ok := i.device(topic)
	if !ok {
		return nil
	}

	var msg configMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("parse config message: %w", err)
	}

	cfg := &input.Config{
		DisplayName: msg.DisplayName,
		Type:        msg.Type,
		PermanentID: pid,
		CanVibrate:  msg.CanVibrate,
		Channels:    make([]input.Channel, 0, len(msg.Channels)),
	}
	for _, ch := range msg.Channels {
		cfg.Channels = append(cfg.Channels, input.Channel{
			Name:     ch.Name,
			Type:     input.ChannelType(ch.Type),
			Min:      ch.Min,
			Max:      ch.Max,
			Accuracy: ch.Accuracy,
		})
	}
	if err := d.SetConfig(cfg); err != nil {
		return fmt.Errorf("apply config: %w", err)
	}
	return nil
}

func (i *Ingest) handleAxis(topic string, payload []byte) error {
	d, _, ok := i.device(topic)
	if !ok {
		return nil
	}

	parts := strings.Split(topic, "/")
	index, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return fmt.Errorf("parse axis index from %q: %w", topic, err)
	}

	var msg axisMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("parse axis message: %w", err)
	}

	d.UpdateChannel(index, sampleFrom(msg.Value, msg.Timestamp))
	return nil
}

func (i *Ingest) handleFrame(topic string, payload []byte) error {
	d, _, ok := i.device(topic)
	if !ok {
		return nil
	}

	var msg frameMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("parse frame message: %w", err)
	}

	indexes := make([]int, 0, len(msg.Axes))
	for key := range msg.Axes {
		index, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("parse frame axis key %q: %w", key, err)
		}
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	d.BeginUpdate()
	defer d.EndUpdate()

	if msg.Connection != "" {
		if err := d.SetConnectionState(input.ConnectionState(msg.Connection)); err != nil {
			return fmt.Errorf("apply frame connection state %q: %w", msg.Connection, err)
		}
	}
	for _, index := range indexes {
		d.UpdateChannel(index, sampleFrom(msg.Axes[strconv.Itoa(index)], msg.Timestamp))
	}
	return nil
}

func (i *Ingest) handleVibrate(topic string, payload []byte) error {
	d, _, ok := i.device(topic)
	if !ok {
		return nil
	}

	var msg vibrateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("parse vibrate message: %w", err)
	}

	d.Vibrate(input.VibrationSettings{
		Duration: time.Duration(msg.DurationMS) * time.Millisecond,
		Strength: msg.Strength,
	})
	return nil
}

// sampleFrom builds a sample from a raw value and an optional RFC 3339
// timestamp, falling back to the arrival time.
func sampleFrom(value float64, timestamp string) input.Sample {
	if timestamp != "" {
		if ts, err := time.Parse(time.RFC3339Nano, timestamp); err == nil {
			return input.Sample{Value: value, Timestamp: ts.UTC()}
		}
	}
	return input.NewSample(value)
}
