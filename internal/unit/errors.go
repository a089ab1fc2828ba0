package unit

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBinary marks a generator or verifier name that no other
	// workspace member defines as a binary target.
	ErrMissingBinary = errors.New("missing binary")
	// ErrMalformedConfig marks a px configuration that failed to decode.
	ErrMalformedConfig = errors.New("malformed codegen configuration")
)

// ConfigError reports a configuration problem for a single package.
type ConfigError struct {
	Package string
	Kind    error
	Msg     string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func missingBinary(role, binary, pkg string) error {
	return &ConfigError{
		Package: pkg,
		Kind:    ErrMissingBinary,
		Msg:     fmt.Sprintf("There is no binary named `%s` in the workspace, but it's listed as the %s name for package `%s`", binary, role, pkg),
	}
}

func malformedConfig(pkg string, err error) error {
	return &ConfigError{
		Package: pkg,
		Kind:    ErrMalformedConfig,
		Msg:     fmt.Sprintf("Failed to deserialize `cargo px`'s codegen configuration from the manifest of `%s`", pkg),
		Err:     err,
	}
}
