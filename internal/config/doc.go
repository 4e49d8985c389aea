// Package config loads, normalizes, and validates iox2sweep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the sweeper needs: the swept directories, the artifact glob patterns, the
// target process name, and journal/logging settings. The hard-coded paths of
// the original cleanup script survive here only as defaults.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths, canonical log formats, and clear validation
// errors.
package config
