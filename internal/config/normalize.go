package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePublish(); err != nil {
		return err
	}
	c.normalizeGroups()
	return c.normalizeLogging()
}

func (c *Config) normalizePublish() error {
	if value, ok := os.LookupEnv("OPENPUBLISH_HOSTS"); ok && strings.TrimSpace(value) != "" {
		c.Publish.Hosts = strings.Split(value, ",")
	}
	if value, ok := os.LookupEnv("OPENPUBLISH_TARGETS"); ok && strings.TrimSpace(value) != "" {
		c.Publish.Targets = strings.Split(value, ",")
	}
	c.Publish.Hosts = cleanList(c.Publish.Hosts)
	c.Publish.Targets = cleanList(c.Publish.Targets)
	if len(c.Publish.Targets) == 0 {
		c.Publish.Targets = []string{defaultTarget}
	}

	var err error
	if strings.TrimSpace(c.Publish.LockDir) == "" {
		c.Publish.LockDir = defaultLockDir
	}
	if c.Publish.LockDir, err = expandPath(c.Publish.LockDir); err != nil {
		return fmt.Errorf("publish.lock_dir: %w", err)
	}
	if c.Publish.PresetsPath, err = expandPath(strings.TrimSpace(c.Publish.PresetsPath)); err != nil {
		return fmt.Errorf("publish.presets_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeGroups() {
	for env, field := range map[string]*string{
		"OPENPUBLISH_ORDER_GROUPS":     &c.Groups.OrderGroups,
		"OPENPUBLISH_VALIDATION_ORDER": &c.Groups.ValidationOrder,
		"OPENPUBLISH_GROUP_RANGE":      &c.Groups.GroupRange,
	} {
		if value, ok := os.LookupEnv(env); ok && strings.TrimSpace(value) != "" {
			*field = value
		}
	}
	c.Groups.OrderGroups = strings.TrimSpace(c.Groups.OrderGroups)
	c.Groups.ValidationOrder = strings.TrimSpace(c.Groups.ValidationOrder)
	c.Groups.GroupRange = strings.TrimSpace(c.Groups.GroupRange)
	if c.Groups.GroupRange == "" {
		c.Groups.GroupRange = defaultGroupRange
	}
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("OPENPUBLISH_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
