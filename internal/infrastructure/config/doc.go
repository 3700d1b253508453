// Package config handles loading and validating inputcore configuration.
//
// Configuration is loaded from a YAML file, with hardcoded defaults
// underneath and environment variable overrides (INPUTCORE_SECTION_KEY)
// on top. Load performs validation and returns a ready-to-use Config.
//
// The devices section declares statically known input devices so they
// are registered with the hub at startup. This is declarative
// registration, not discovery: device drivers are external producers
// that feed the declared devices over MQTT.
package config
