// Package services defines shared utilities consumed by the publish controller,
// the plugin runtime, and the CLI host.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, plugin names, and instance
//     names for logging.
//   - Structured error markers plus the Wrap helper that let callers classify
//     failures (configuration, plugin, engine) with errors.Is.
//
// Use these helpers when wiring new pipeline code so error handling and
// observability stay uniform across packages.
package services
