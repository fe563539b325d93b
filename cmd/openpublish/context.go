package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"openpublish/internal/config"
	"openpublish/internal/demo"
	"openpublish/internal/logging"
	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// orderGroups reads group settings from the loaded configuration.
func (c *commandContext) orderGroups() (*ordergroups.OrderGroups, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return ordergroups.New(cfg, logger), nil
}

// registry builds a plugin registry with the configured hosts, targets and
// presets, and the demo pipeline registered.
func (c *commandContext) registry(opts demo.Options) (*plugin.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	reg := plugin.NewRegistry(logger)
	for _, host := range cfg.Publish.Hosts {
		reg.RegisterHost(host)
	}
	for _, target := range cfg.Publish.Targets {
		reg.RegisterTarget(target)
	}
	presets, err := plugin.LoadPresets(cfg.Publish.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}
	reg.SetPresets(presets)
	demo.Register(reg, opts)
	return reg, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
