// Package config loads, normalizes, and validates hopper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads YAML files, and canonicalizes conversion-option keys. The
// Config type centralizes every knob the daemon and CLI need, from directory
// layout to tool arguments, and is immutable once loaded.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a guaranteed defaults option entry, and clear validation
// errors.
package config
