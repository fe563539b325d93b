package config

const (
	defaultLockDir     = "~/.local/share/openpublish"
	defaultLogDir      = "~/.local/share/openpublish/logs"
	defaultPresetsPath = "~/.config/openpublish/presets.yaml"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultTarget      = "default"
	defaultGroupRange  = "1"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Groups: Groups{
			GroupRange: defaultGroupRange,
		},
		Publish: Publish{
			Targets:     []string{defaultTarget},
			PresetsPath: defaultPresetsPath,
			LockDir:     defaultLockDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
