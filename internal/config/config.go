package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
const CurrentConfigVersion = 1

// Config represents the complete .revwatch.yaml configuration file.
type Config struct {
	Version     int           `yaml:"version" mapstructure:"version"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Session     SessionConfig `yaml:"session" mapstructure:"session"`
	Probes      ProbeConfig   `yaml:"probes" mapstructure:"probes"`
	Refresh     RefreshConfig `yaml:"refresh" mapstructure:"refresh"`
	Output      OutputConfig  `yaml:"output" mapstructure:"output"`
}

// SessionConfig locates the pipeline's session store artifact.
type SessionConfig struct {
	// Store is the path to the session store file produced by the
	// pipeline runner. Connectivity is derived from its existence.
	Store string `yaml:"store" mapstructure:"store"`

	// Default is the session id used when none is given on the CLI.
	Default string `yaml:"default" mapstructure:"default"`
}

// ProbeConfig controls external tool probing.
type ProbeConfig struct {
	// Timeout is the hard per-probe deadline. The probed process is
	// killed when it elapses.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RemoteHost, when set, runs tool probes on that host over SSH
	// instead of spawning local processes. Accepts an SSH config alias
	// or user@host form.
	RemoteHost string `yaml:"remote_host" mapstructure:"remote_host"`
}

// RefreshConfig controls the auto-refresh display loop.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// OutputConfig controls report formatting.
type OutputConfig struct {
	// BarWidth is the progress bar width in characters.
	BarWidth int `yaml:"bar_width" mapstructure:"bar_width"`

	// Color forces color output on or off. Empty means auto-detect.
	Color string `yaml:"color" mapstructure:"color"`
}

// Default returns a config populated with defaults, used when no config
// file exists.
func Default() *Config {
	return &Config{
		Version:     CurrentConfigVersion,
		Environment: "development",
		Session: SessionConfig{
			Store:   ".revwatch/session.yaml",
			Default: "default",
		},
		Probes: ProbeConfig{
			Timeout: time.Second,
		},
		Refresh: RefreshConfig{
			Interval: 5 * time.Second,
		},
		Output: OutputConfig{
			BarWidth: 20,
		},
	}
}
