package api

import (
	"time"

	"github.com/tbransom/inputcore/internal/input"
)

// Broadcaster forwards device notifications to WebSocket subscribers.
// It implements both listener interfaces and is attached hub-wide when
// the server starts, so clients see every registered device.
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a broadcaster feeding the given WebSocket hub.
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// OnStatusChanged broadcasts on the device.status channel.
func (b *Broadcaster) OnStatusChanged(d *input.DeviceContext, ev input.StatusEvent) {
	cfg := d.Config()
	state := d.ConnectionState()
	b.hub.Broadcast(ChannelDeviceStatus, map[string]any{
		"device_id":          d.ID(),
		"permanent_id":       cfg.PermanentID,
		"connection_state":   state.String(),
		"connected":          state.IsConnected(),
		"connection_changed": ev.ConnectionChanged,
		"reconfigured":       ev.Reconfigured,
	})
}

// OnChannelData broadcasts on the device.axis channel.
func (b *Broadcaster) OnChannelData(d *input.DeviceContext, ev input.ChannelEvent) {
	b.hub.Broadcast(ChannelDeviceAxis, map[string]any{
		"device_id": d.ID(),
		"channel":   ev.Index,
		"value":     ev.Sample.Value,
		"timestamp": ev.Sample.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}
