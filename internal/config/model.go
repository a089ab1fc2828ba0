package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Log formats understood by the application logger.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Settings is the unified representation of a cargo-px settings file.
type Settings struct {
	// Path is the file the settings were read from, empty for defaults.
	Path string

	// LogLevel enables diagnostic logging when set. CARGO_PX_LOG takes
	// precedence.
	LogLevel  string
	LogFormat string

	// ExtraCodegenCommands are cargo verbs that trigger code generation on
	// top of the built-in ones.
	ExtraCodegenCommands []string

	// Env is added to the environment of every generator and verifier.
	Env map[string]string
}

// Default returns the settings used when no settings file exists.
func Default() *Settings {
	return &Settings{
		LogFormat: FormatText,
		Env:       map[string]string{},
	}
}

// Validate checks every field, reporting all problems at once.
func (s *Settings) Validate() error {
	var errs []error
	if s.LogLevel != "" && !slices.Contains(logLevels, s.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log_level %q: must be one of %s", s.LogLevel, strings.Join(logLevels, ", ")))
	}
	if s.LogFormat != FormatText && s.LogFormat != FormatJSON {
		errs = append(errs, fmt.Errorf("invalid log_format %q: must be %q or %q", s.LogFormat, FormatText, FormatJSON))
	}
	for _, cmd := range s.ExtraCodegenCommands {
		if cmd == "" || strings.HasPrefix(cmd, "-") {
			errs = append(errs, fmt.Errorf("invalid entry %q in extra_codegen_commands: must be a cargo subcommand", cmd))
		}
	}
	for k := range s.Env {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			errs = append(errs, fmt.Errorf("invalid environment variable name %q", k))
		}
	}
	if err := errors.Join(errs...); err != nil {
		if s.Path != "" {
			return fmt.Errorf("invalid settings in %s: %w", s.Path, err)
		}
		return err
	}
	return nil
}
