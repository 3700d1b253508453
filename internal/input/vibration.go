package input

import "time"

// VibrationSettings describes a requested haptic pulse. The zero value
// asks the actuator for its default pulse.
type VibrationSettings struct {
	// Duration of the pulse. Zero means the actuator's default.
	Duration time.Duration `json:"duration"`

	// Strength in [0, 1]. Zero means the actuator's default.
	Strength float64 `json:"strength"`
}

// VibrationHandler actuates a vibration request for a device. It is
// invoked synchronously from Vibrate; implementations that talk to slow
// hardware should hand off internally.
type VibrationHandler func(d *DeviceContext, settings VibrationSettings)
