// Package demo registers a small reference pipeline used by the CLI and by
// integration tests. It exercises every scheduling path the publish
// controller has: negative and fractional orders, family filtering,
// unpublished instances, inactive and optional plugins, actions, and a
// validator that can be told to fail.
package demo
