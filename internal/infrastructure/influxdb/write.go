package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteChannelSample records one accepted channel sample.
//
// The write is non-blocking; data is batched and sent asynchronously.
// The point is stamped with the sample's hardware timestamp, not the
// write time, so suppressed-jitter gaps show up faithfully in queries.
func (c *Client) WriteChannelSample(deviceID int, channel int, value float64, ts time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"channel_samples",
		map[string]string{
			"device_id": strconv.Itoa(deviceID),
			"channel":   strconv.Itoa(channel),
		},
		map[string]interface{}{
			"value": value,
		},
		ts,
	)

	c.writeAPI.WritePoint(point)
}

// WriteConnectionState records a device connection transition.
//
// Stored as a string field in the device_status measurement; useful for
// correlating sample gaps with disconnects.
func (c *Client) WriteConnectionState(deviceID int, state string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device_id": strconv.Itoa(deviceID),
		},
		map[string]interface{}{
			"connection_state": state,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
