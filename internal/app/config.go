package app

import (
	"errors"
	"fmt"

	"github.com/vk/cargopx/internal/config"
)

// ErrEnvironmentUnavailable is returned when the process was not started by
// cargo and the information cargo provides is missing.
var ErrEnvironmentUnavailable = errors.New("environment unavailable")

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// CargoPath is the cargo executable, as provided by cargo in $CARGO.
	CargoPath string
	// WorkingDir is where cargo px was invoked from.
	WorkingDir string
	// Args are the arguments following the cargo verb.
	Args []string
	// Quiet silences status output and is forwarded to spawned commands.
	Quiet bool
	// LogLevel comes from CARGO_PX_LOG and overrides the settings file.
	LogLevel string
	Settings *config.Settings
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CargoPath == "" {
		return nil, fmt.Errorf("%w: the `CARGO` environment variable was not set. "+
			"It is provided by `cargo` when invoking a custom sub-command: run `cargo px <command>` instead of `cargo-px`",
			ErrEnvironmentUnavailable)
	}
	if cfg.WorkingDir == "" {
		return nil, errors.New("WorkingDir is a required configuration field and cannot be empty")
	}
	if cfg.LogLevel != "" {
		if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// logLevel returns the effective diagnostic log level, empty when logging is
// disabled.
func (c *Config) logLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return c.Settings.LogLevel
}
