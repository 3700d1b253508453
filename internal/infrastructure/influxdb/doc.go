// Package influxdb records channel sample telemetry for inputcore.
//
// It wraps the InfluxDB v2 client with connection management, batched
// non-blocking writes and health monitoring. Samples accepted by a
// device context are written as points in the channel_samples
// measurement, tagged by device and channel for dashboarding and rate
// analysis.
//
// All methods are safe for concurrent use from multiple goroutines.
package influxdb
