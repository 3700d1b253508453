// Package api provides the HTTP REST API and WebSocket server for the
// input core.
//
// It exposes read access to registered devices and their current channel
// values, the sample history, a vibration endpoint, and a WebSocket feed
// of live device events.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple
// goroutines.
package api
