package bridge

import (
	"time"

	"github.com/tbransom/inputcore/internal/input"
)

// SampleWriter is the subset of the InfluxDB client used for telemetry.
// This allows mocking in tests.
type SampleWriter interface {
	WriteChannelSample(deviceID int, channel int, value float64, ts time.Time)
	WriteConnectionState(deviceID int, state string)
}

// Telemetry forwards accepted samples and connection changes to a time
// series database. Writes are batched and non-blocking inside the
// client, so the listener callbacks return immediately.
type Telemetry struct {
	writer SampleWriter
}

// NewTelemetry creates a telemetry listener writing through the given writer.
func NewTelemetry(writer SampleWriter) *Telemetry {
	return &Telemetry{writer: writer}
}

// OnStatusChanged records connection transitions. Reconfigurations alone
// are not written; the time series tracks availability, not geometry.
func (t *Telemetry) OnStatusChanged(d *input.DeviceContext, ev input.StatusEvent) {
	if !ev.ConnectionChanged {
		return
	}
	t.writer.WriteConnectionState(d.ID(), d.ConnectionState().String())
}

// OnChannelData records the accepted sample with its hardware timestamp.
func (t *Telemetry) OnChannelData(d *input.DeviceContext, ev input.ChannelEvent) {
	t.writer.WriteChannelSample(d.ID(), ev.Index, ev.Sample.Value, ev.Sample.Timestamp)
}
