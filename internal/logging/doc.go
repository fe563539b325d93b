// Package logging assembles the slog loggers used by the publish engine and
// its command line host.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// context helpers that tag lines with the run, plugin and instance currently
// being processed. RecordHandler captures what a plugin logs during one call
// so the records can travel with its result, and TeeLogger duplicates that
// output into the operator log.
package logging
