// Package config loads, normalizes, and validates openpublish configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENPUBLISH_TARGETS. The Config type centralizes the knobs the publish
// controller and CLI host need: order-group specifications, registered hosts
// and targets, plugin presets, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
