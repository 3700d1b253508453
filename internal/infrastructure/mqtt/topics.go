package mqtt

import "fmt"

// Topic prefixes for the inputcore MQTT hierarchy.
//
// Device drivers publish raw frames under inputcore/raw/{pid}/...; the
// core publishes coalesced events under inputcore/device/{pid}/... and
// accepts commands under inputcore/command/{pid}/.... {pid} is the
// device's permanent ID.
const (
	// TopicPrefix is the base for all inputcore topics.
	TopicPrefix = "inputcore"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "inputcore/system"
)

// Topics provides builders for inputcore MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// DeviceStatus returns the topic for coalesced device status events.
// Published retained so new subscribers see the current status.
//
// Example: inputcore/device/vendor:045e:028e/status
func (Topics) DeviceStatus(pid string) string {
	return fmt.Sprintf("%s/device/%s/status", TopicPrefix, pid)
}

// DeviceAxis returns the topic for accepted channel samples.
//
// Example: inputcore/device/vendor:045e:028e/axis/0
func (Topics) DeviceAxis(pid string, index int) string {
	return fmt.Sprintf("%s/device/%s/axis/%d", TopicPrefix, pid, index)
}

// RawConnection returns the topic drivers publish connection frames to.
//
// Example: inputcore/raw/vendor:045e:028e/connection
func (Topics) RawConnection(pid string) string {
	return fmt.Sprintf("%s/raw/%s/connection", TopicPrefix, pid)
}

// RawConfig returns the topic drivers publish configuration frames to.
//
// Example: inputcore/raw/vendor:045e:028e/config
func (Topics) RawConfig(pid string) string {
	return fmt.Sprintf("%s/raw/%s/config", TopicPrefix, pid)
}

// RawAxis returns the topic drivers publish raw channel frames to.
//
// Example: inputcore/raw/vendor:045e:028e/axis/2
func (Topics) RawAxis(pid string, index int) string {
	return fmt.Sprintf("%s/raw/%s/axis/%d", TopicPrefix, pid, index)
}

// RawFrame returns the topic drivers publish combined frames to.
// A frame carries a connection state and several channel values that
// must be delivered to consumers as one coalesced notification.
//
// Example: inputcore/raw/vendor:045e:028e/frame
func (Topics) RawFrame(pid string) string {
	return fmt.Sprintf("%s/raw/%s/frame", TopicPrefix, pid)
}

// DriverVibrate returns the topic vibration requests are delivered to
// the owning driver on. Distinct from CommandVibrate so a forwarded
// request is not re-ingested as a new command.
func (Topics) DriverVibrate(pid string) string {
	return fmt.Sprintf("%s/driver/%s/vibrate", TopicPrefix, pid)
}

// CommandVibrate returns the topic vibration requests arrive on.
//
// Example: inputcore/command/vendor:045e:028e/vibrate
func (Topics) CommandVibrate(pid string) string {
	return fmt.Sprintf("%s/command/%s/vibrate", TopicPrefix, pid)
}

// SystemStatus returns the system status topic.
//
// Example: inputcore/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllRawConnections returns a pattern matching every connection frame.
//
// Pattern: inputcore/raw/+/connection
func (Topics) AllRawConnections() string {
	return fmt.Sprintf("%s/raw/+/connection", TopicPrefix)
}

// AllRawConfigs returns a pattern matching every configuration frame.
//
// Pattern: inputcore/raw/+/config
func (Topics) AllRawConfigs() string {
	return fmt.Sprintf("%s/raw/+/config", TopicPrefix)
}

// AllRawAxes returns a pattern matching every raw channel frame.
//
// Pattern: inputcore/raw/+/axis/+
func (Topics) AllRawAxes() string {
	return fmt.Sprintf("%s/raw/+/axis/+", TopicPrefix)
}

// AllRawFrames returns a wildcard matching every combined frame topic.
func (Topics) AllRawFrames() string {
	return fmt.Sprintf("%s/raw/+/frame", TopicPrefix)
}

// AllVibrateCommands returns a pattern matching every vibration command.
//
// Pattern: inputcore/command/+/vibrate
func (Topics) AllVibrateCommands() string {
	return fmt.Sprintf("%s/command/+/vibrate", TopicPrefix)
}
