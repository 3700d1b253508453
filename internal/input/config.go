package input

// ChannelType classifies what a channel measures. It is descriptive
// only; the core treats all channels identically.
type ChannelType string

// Common channel types.
const (
	ChannelTypeX       ChannelType = "x"
	ChannelTypeY       ChannelType = "y"
	ChannelTypeTrigger ChannelType = "trigger"
	ChannelTypeWheel   ChannelType = "wheel"
	ChannelTypeGeneric ChannelType = "generic"
)

// Channel is the immutable configuration of one scalar input stream:
// the value bounds the hardware can produce and the rated accuracy of
// its readings. Accuracy doubles as the noise threshold — deltas smaller
// than it are jitter, not input. An Accuracy of zero (or less) selects
// the default threshold.
type Channel struct {
	Name     string      `json:"name,omitempty"`
	Type     ChannelType `json:"type,omitempty"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
	Accuracy float64     `json:"accuracy"`
}

// Config is an immutable snapshot of a device's full configuration.
// Reconfiguration replaces the whole Config; nothing mutates one in
// place. Two Configs are interchangeable iff Equal reports true.
type Config struct {
	// DisplayName is the human-readable device name.
	DisplayName string `json:"display_name"`

	// Type classifies the device (gamepad, joystick, panel, ...).
	Type string `json:"type,omitempty"`

	// PermanentID survives reconnects and identifies the physical
	// device to external collaborators. The hub assigns one when the
	// producer does not supply it.
	PermanentID string `json:"permanent_id,omitempty"`

	// CanVibrate reports whether the device has a rumble/haptic motor.
	CanVibrate bool `json:"can_vibrate"`

	// Channels is the ordered, index-addressed channel set.
	Channels []Channel `json:"channels"`
}

// ChannelAt returns the channel configuration at the given index.
// The second return is false for indexes outside the channel set.
func (c *Config) ChannelAt(index int) (Channel, bool) {
	if c == nil || index < 0 || index >= len(c.Channels) {
		return Channel{}, false
	}
	return c.Channels[index], true
}

// ChannelCount returns the number of configured channels.
func (c *Config) ChannelCount() int {
	if c == nil {
		return 0
	}
	return len(c.Channels)
}

// Equal reports whether two configurations are identical by value.
// Reconfiguring a context with an Equal config is a no-op.
func (c *Config) Equal(other *Config) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if c.DisplayName != other.DisplayName ||
		c.Type != other.Type ||
		c.PermanentID != other.PermanentID ||
		c.CanVibrate != other.CanVibrate ||
		len(c.Channels) != len(other.Channels) {
		return false
	}
	for i := range c.Channels {
		if c.Channels[i] != other.Channels[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the configuration. Callers that
// build a new Config from an existing one must clone first so the
// original snapshot stays immutable.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cpy := *c
	if c.Channels != nil {
		cpy.Channels = make([]Channel, len(c.Channels))
		copy(cpy.Channels, c.Channels)
	}
	return &cpy
}
