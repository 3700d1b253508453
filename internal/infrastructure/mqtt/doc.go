// Package mqtt wraps paho.mqtt.golang for inputcore.
//
// MQTT is the transport between external device drivers and the core:
// drivers publish raw frames on the inputcore/raw hierarchy, the core
// publishes coalesced device events on inputcore/device, and vibration
// commands travel on inputcore/command. The client provides connection
// management, publish/subscribe with panic-recovered handlers, automatic
// re-subscription on reconnect, and Last Will offline signalling.
//
// All methods are safe for concurrent use from multiple goroutines.
package mqtt
