package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/revwatch/revwatch/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".revwatch.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/revwatch"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Create a "+ConfigFileName+" or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v)
}

// LoadOrDefault loads the config found by Find, falling back to built-in
// defaults when no config file exists anywhere in the search path.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Find locates the config file using the search order:
//  1. Explicit path (from --config flag)
//  2. .revwatch.yaml in the current directory
//  3. ~/.config/revwatch/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
	if _, err := os.Stat(globalConfig); err == nil {
		return globalConfig, nil
	}

	return "", nil
}

// newViper creates a viper instance with revwatch defaults registered.
func newViper() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("session.store", d.Session.Store)
	v.SetDefault("session.default", d.Session.Default)
	v.SetDefault("probes.timeout", d.Probes.Timeout)
	v.SetDefault("probes.remote_host", "")
	v.SetDefault("refresh.interval", d.Refresh.Interval)
	v.SetDefault("output.bar_width", d.Output.BarWidth)
	v.SetDefault("output.color", "")
	return v
}

// parseConfig unmarshals and validates the loaded configuration.
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config file",
			"Check field names and value types against the documented schema")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks config values for consistency.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than supported version %d", cfg.Version, CurrentConfigVersion),
			"Upgrade revwatch or lower the config version")
	}
	if cfg.Session.Store == "" {
		return errors.New(errors.ErrConfig,
			"session.store must not be empty",
			"Point session.store at the pipeline's session file")
	}
	if cfg.Probes.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"probes.timeout must be positive",
			"Use a duration like 1s")
	}
	if cfg.Refresh.Interval < 100*time.Millisecond {
		return errors.New(errors.ErrConfig,
			"refresh.interval must be at least 100ms",
			"Use a duration like 5s")
	}
	if cfg.Output.BarWidth <= 0 {
		return errors.New(errors.ErrConfig,
			"output.bar_width must be positive",
			"Use a width like 20")
	}
	switch cfg.Output.Color {
	case "", "auto", "always", "never":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("output.color %q is not recognized", cfg.Output.Color),
			"Use auto, always, or never")
	}
	return nil
}
