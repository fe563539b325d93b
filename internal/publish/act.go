package publish

import (
	"context"
	"fmt"

	"openpublish/internal/logging"
	"openpublish/internal/plugin"
	"openpublish/internal/services"
)

// Act runs one action of a plugin against the current Context, outside the
// main sequence. Action failures are reported in the Result.
func (c *Controller) Act(ctx context.Context, pluginName, actionID string) (plugin.Result, error) {
	if !c.running.CompareAndSwap(false, true) {
		return plugin.Result{}, services.ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.mu.Lock()
	pub := c.pub
	runID := c.runID
	c.mu.Unlock()
	if pub == nil {
		return plugin.Result{}, errNotReset
	}

	p, err := c.findPlugin(pluginName)
	if err != nil {
		return plugin.Result{}, err
	}
	if _, ok := p.ActionByID(actionID); !ok {
		return plugin.Result{}, services.Wrap(services.ErrNotFound, "publish", "act", fmt.Sprintf("plugin %s has no action %q", pluginName, actionID), nil)
	}

	ctx = services.WithRunID(ctx, runID)
	result, err := c.safeProcess(ctx, p, pub, nil, actionID)
	if err != nil {
		c.logger.Error("action aborted by unexpected error",
			logging.String(logging.FieldEventType, "action_unexpected_error"),
			logging.String(logging.FieldPlugin, pluginName),
			logging.String(logging.FieldAction, actionID),
			logging.Error(err),
		)
		c.observer.UnexpectedError(err)
		return result, err
	}

	c.logger.Info("action finished",
		logging.String(logging.FieldEventType, "action_finished"),
		logging.String(logging.FieldPlugin, pluginName),
		logging.String(logging.FieldAction, actionID),
		logging.Bool("success", result.Success),
	)
	c.observer.WasActed(result)
	return result, nil
}

// AvailableActions lists the actions of the named plugin that apply to its
// processed and errored state in this run.
func (c *Controller) AvailableActions(pluginName string) ([]*plugin.Action, error) {
	p, err := c.findPlugin(pluginName)
	if err != nil {
		return nil, err
	}
	state := c.PluginState(pluginName)
	var available []*plugin.Action
	for _, action := range p.Actions {
		if action.Available(state) {
			available = append(available, action)
		}
	}
	return available, nil
}
