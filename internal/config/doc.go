// Package config loads, normalizes, and validates SquadVault configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the standard locations. The Config type
// centralizes every knob the CLI needs: data/log/export directories, selection
// eligibility thresholds, and log output settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical confidence categories, and clear validation
// errors.
package config
