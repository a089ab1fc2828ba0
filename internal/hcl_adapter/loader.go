// Package hcl_adapter reads cargo-px settings files written in HCL and
// translates them into the format-agnostic config.Settings model.
package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/cargopx/internal/config"
	"github.com/vk/cargopx/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ feeds the `env` variable visible to expressions.
	Environ func() []string
}

// NewLoader creates a new HCL settings loader bound to the process
// environment.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

// fileRoot lists every attribute a settings file may define. Unknown
// attributes and blocks are rejected by the decoder.
type fileRoot struct {
	LogLevel             hcl.Expression `hcl:"log_level,optional"`
	LogFormat            hcl.Expression `hcl:"log_format,optional"`
	ExtraCodegenCommands hcl.Expression `hcl:"extra_codegen_commands,optional"`
	Env                  hcl.Expression `hcl:"env,optional"`
}

// Load parses the settings file at path, evaluates its expressions and
// returns validated settings.
func (l *Loader) Load(ctx context.Context, path string) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL settings loader started.", "path", path)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(abs)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}

	environ := os.Environ
	if l.Environ != nil {
		environ = l.Environ
	}
	evalCtx := newEvalContext(filepath.Dir(abs), environ())

	settings, err := l.translateSettings(ctx, &root, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate settings file %s: %w", path, err)
	}
	settings.Path = path
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL settings loading complete.",
		"log_level", settings.LogLevel,
		"extra_codegen_commands", len(settings.ExtraCodegenCommands),
		"env", len(settings.Env),
	)
	return settings, nil
}
