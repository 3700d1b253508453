// Package bridge connects device contexts to the outside world over MQTT
// and feeds accepted samples into persistence and telemetry sinks.
//
// Four components live here, each small and independently wired:
//
//   - Publisher: listens on the hub and republishes coalesced device
//     notifications as JSON (retained status, per-channel samples).
//   - Ingest: subscribes to raw driver topics and drives device contexts
//     (connection state, configuration, channel values, vibration commands).
//   - Recorder: appends every accepted sample to the history repository.
//   - Telemetry: forwards accepted samples and connection changes to
//     InfluxDB for long-term analysis.
//
// All components are passive: they hold no goroutines of their own and do
// their work inside listener callbacks or MQTT message handlers.
package bridge
