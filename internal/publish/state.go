package publish

// Phase is the coarse controller state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResetting
	PhaseCollecting
	PhaseValidating
	PhasePublishing
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseResetting:
		return "resetting"
	case PhaseCollecting:
		return "collecting"
	case PhaseValidating:
		return "validating"
	case PhasePublishing:
		return "publishing"
	case PhaseFinished:
		return "finished"
	default:
		return "idle"
	}
}

// State is a snapshot of the controller's bookkeeping.
type State struct {
	Phase      Phase
	RunID      string
	IsRunning  bool
	Stopped    bool
	Errored    bool
	// Fatal is set once an engine failure ended the run. Only Reset clears it.
	Fatal      bool
	Collected  bool
	Validated  bool
	Toggleable bool
	// LastBreak is the reason the most recent run paused, if it did.
	LastBreak string
}
