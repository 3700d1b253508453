package input

// ConnectionState describes an input device's connection with the host.
//
// Transitions are whatever producers assert; the core records them in
// arrival order and imposes no state machine of its own.
type ConnectionState string

// Known connection states.
const (
	// Disconnected means the device is not attached and cannot provide input.
	Disconnected ConnectionState = "disconnected"

	// Connecting means the device is attaching but not yet delivering input.
	Connecting ConnectionState = "connecting"

	// Connected means the device is attached and providing input.
	Connected ConnectionState = "connected"
)

// AllConnectionStates returns every recognised connection state.
func AllConnectionStates() []ConnectionState {
	return []ConnectionState{Disconnected, Connecting, Connected}
}

// Valid reports whether s is one of the recognised connection states.
func (s ConnectionState) Valid() bool {
	switch s {
	case Disconnected, Connecting, Connected:
		return true
	}
	return false
}

// IsConnected reports whether the state means the device can provide input.
func (s ConnectionState) IsConnected() bool {
	return s == Connected
}

// String returns the state's wire representation.
func (s ConnectionState) String() string {
	return string(s)
}
