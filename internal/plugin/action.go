package plugin

import (
	"context"
	"log/slog"
)

// On decides when an Action is offered for its plugin.
type On string

const (
	OnAll          On = "all"
	OnProcessed    On = "processed"
	OnSucceeded    On = "succeeded"
	OnFailed       On = "failed"
	OnNotProcessed On = "notProcessed"
)

// ActionFunc runs an action against the whole Context.
type ActionFunc func(ctx context.Context, pub *Context, p *Plugin, log *slog.Logger) error

// Action is an operation attached to a plugin and run outside the main
// sequence, typically to inspect or repair what the plugin reported.
type Action struct {
	ID    string
	Label string
	Icon  string
	On    On
	Func  ActionFunc
}

// NewAction returns an action offered in every state.
func NewAction(id string, fn ActionFunc) *Action {
	return &Action{ID: id, Label: DeriveLabel(id), On: OnAll, Func: fn}
}

// PluginState is the per-run bookkeeping an action's availability depends on.
type PluginState struct {
	Processed bool
	Errored   bool
}

// Available reports whether the action should be offered.
func (a *Action) Available(state PluginState) bool {
	switch a.On {
	case OnProcessed:
		return state.Processed
	case OnSucceeded:
		return state.Processed && !state.Errored
	case OnFailed:
		return state.Processed && state.Errored
	case OnNotProcessed:
		return !state.Processed
	default:
		return true
	}
}
