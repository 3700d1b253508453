package bridge

import "github.com/tbransom/inputcore/internal/infrastructure/mqtt"

// MQTTClient is the subset of the MQTT client used by the bridge
// components. This allows mocking in tests.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	IsConnected() bool
}
