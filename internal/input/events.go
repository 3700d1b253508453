package input

// StatusEvent describes what changed about a device's status during one
// batch. Both flags may be set when a batch coalesced a reconnect with a
// reconfiguration; consumers receive one event either way.
type StatusEvent struct {
	// ConnectionChanged is set when the connection state changed.
	ConnectionChanged bool `json:"connection_changed"`

	// Reconfigured is set when the device configuration was replaced.
	Reconfigured bool `json:"reconfigured"`
}

// any reports whether the event carries any change worth delivering.
func (e StatusEvent) any() bool {
	return e.ConnectionChanged || e.Reconfigured
}

// ChannelEvent carries one accepted channel sample. Config is the device
// configuration that was current when the sample was accepted, so a
// consumer handling a batch that also reconfigured the device can tell
// which channel set the index refers to.
type ChannelEvent struct {
	Config *Config `json:"config"`
	Index  int     `json:"index"`
	Sample Sample  `json:"sample"`
}
