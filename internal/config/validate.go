package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate ensures the configuration is usable. Order-group entries are parsed
// by the ordergroups package; only the scalar knobs are checked here.
func (c *Config) Validate() error {
	if err := c.validateGroups(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGroups() error {
	value, err := strconv.ParseFloat(c.Groups.GroupRange, 64)
	if err != nil {
		return fmt.Errorf("groups.group_range must be a number: %w", err)
	}
	if value <= 0 {
		return errors.New("groups.group_range must be positive")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if len(c.Publish.Targets) == 0 {
		return errors.New("publish.targets must include at least one target")
	}
	if strings.TrimSpace(c.Publish.LockDir) == "" {
		return errors.New("publish.lock_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	for plugin, level := range c.Logging.PluginOverrides {
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("logging.plugin_overrides.%s: unsupported value %q", plugin, level)
		}
	}
	return nil
}
