package publish

import (
	"fmt"

	"openpublish/internal/plugin"
	"openpublish/internal/services"
)

// SetInstancePublish includes or excludes an instance from the rest of the
// run. Only allowed while paused right after collection.
func (c *Controller) SetInstancePublish(inst *plugin.Instance, publish bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.toggleWindowLocked(); err != nil {
		return err
	}
	if inst == nil || inst.Context() != c.pub {
		return services.Wrap(services.ErrNotFound, "publish", "toggle instance", "instance is not part of the current context", nil)
	}
	inst.SetPublish(publish)
	return nil
}

// SetPluginActive enables or disables an optional plugin for the rest of
// the run. Only allowed while paused right after collection.
func (c *Controller) SetPluginActive(name string, active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.toggleWindowLocked(); err != nil {
		return err
	}
	for _, p := range c.plugins {
		if p.Name != name {
			continue
		}
		if !p.Optional {
			return fmt.Errorf("%w: plugin %s is not optional", services.ErrCannotToggle, name)
		}
		p.Active = active
		return nil
	}
	return services.Wrap(services.ErrNotFound, "publish", "toggle plugin", name, nil)
}

func (c *Controller) toggleWindowLocked() error {
	if c.running.Load() || c.seq == nil || c.seq.collect != collectOpen {
		return services.ErrCannotToggle
	}
	return nil
}
