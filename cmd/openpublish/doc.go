// Package main hosts the openpublish CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, builds a plugin registry with
// the reference demo pipeline, and drives the publish controller from the
// terminal. Plugin discovery, ordering and result folding live in the
// internal packages; commands here only wire them together and render
// their output.
package main
