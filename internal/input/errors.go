package input

import "errors"

// Domain errors for the input package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, input.ErrInvalidConnectionState) {
//	    // producer sent an unrecognised state
//	}
//
// Only missing required arguments are errors. Unknown channel indexes,
// duplicate listeners, vibration on a non-capable device and value-equal
// updates are benign producer races and are silent no-ops.
var (
	// ErrInvalidConnectionState is returned when a connection update
	// carries a state outside the recognised set.
	ErrInvalidConnectionState = errors.New("input: invalid connection state")

	// ErrNilConfig is returned when a reconfiguration carries no config.
	ErrNilConfig = errors.New("input: nil config")
)
