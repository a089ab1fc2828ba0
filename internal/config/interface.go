package config

import "context"

// FileName is the settings file looked up from the working directory
// upwards.
const FileName = ".cargo-px.hcl"

// Loader is the interface for a format-specific settings loader.
type Loader interface {
	// Load reads the settings file at path and translates it into the
	// format-agnostic model. The result is validated.
	Load(ctx context.Context, path string) (*Settings, error)
}
