package publish

import (
	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
)

// StepKind enumerates what the sequencer produced.
type StepKind int

const (
	// StepPair asks the caller to process Plugin, on Instance when it is set.
	StepPair StepKind = iota
	// StepSkip reports a plugin that will not run.
	StepSkip
	// StepGroupPassed reports that Group became the current group.
	StepGroupPassed
	// StepToggleable opens the instance curation window.
	StepToggleable
	// StepBreak pauses the run with Reason.
	StepBreak
	// StepDone means every plugin was visited.
	StepDone

	// stepTest asks the caller to run the stop test and report back through
	// testDone. It never leaves the package.
	stepTest
)

func (k StepKind) String() string {
	switch k {
	case StepPair:
		return "pair"
	case StepSkip:
		return "skip"
	case StepGroupPassed:
		return "group-passed"
	case StepToggleable:
		return "toggleable"
	case StepBreak:
		return "break"
	case stepTest:
		return "test"
	default:
		return "done"
	}
}

// Step is one outcome of advancing the sequencer.
type Step struct {
	Kind     StepKind
	Plugin   *plugin.Plugin
	Instance *plugin.Instance
	Group    ordergroups.Group
	Reason   string
}

// Break reasons.
const (
	ReasonCollected   = "Collected"
	ReasonGroupErrors = "Last group errored"
	ReasonValidated   = "Validated"
	ReasonStopped     = "Stopped"
	ReasonUnexpected  = "Unexpected error"
)

func testReason(message string) string {
	return "Stopped due to \"" + message + "\""
}
