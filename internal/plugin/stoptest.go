package plugin

import "openpublish/internal/ordergroups"

// TestState is the processing snapshot handed to a TestFunc before each
// plugin. Optional orders are nil until known.
type TestState struct {
	NextOrder         float64
	LastPluginOrder   *float64
	CurrentGroupOrder *float64
	NextGroupOrder    *float64
	OrdersWithError   []float64
	StopOnValidation  bool
}

// TestFunc vetoes continuing a run. A non-empty message stops the run.
type TestFunc func(TestState) string

// DefaultTest stops a run once processing has moved past validation while
// an error was recorded at or before it.
func DefaultTest(state TestState) string {
	const boundary = ordergroups.ValidatorOrder + ordergroups.DefaultGroupRange/2
	if state.NextOrder < boundary {
		return ""
	}
	for _, order := range state.OrdersWithError {
		if order < boundary {
			return "failed validation"
		}
	}
	return ""
}
