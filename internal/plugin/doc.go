// Package plugin defines the units of work a publish run sequences: Plugin
// descriptors, their Actions, and the Context of Instances they operate on.
//
// It also carries the stock collaborators the publish controller needs
// around plugins. Registry discovers plugins and registered targets,
// Presets layers per-host attribute overrides from YAML, DefaultProcessor
// invokes plugin code and folds failures into a Result, and DefaultTest
// decides when a run must stop after failed validation.
package plugin
