// This file translates a decoded settings file into the format-agnostic
// config.Settings model.

package hcl_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/cargopx/internal/config"
	"github.com/vk/cargopx/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// translateSettings evaluates every defined attribute, starting from the
// defaults. All evaluation errors are reported together.
func (l *Loader) translateSettings(ctx context.Context, root *fileRoot, evalCtx *hcl.EvalContext) (*config.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	settings := config.Default()

	var errs []error
	decode := func(expr hcl.Expression, name string, ty cty.Type, target any) {
		if !isExprDefined(ctx, expr, name) {
			return
		}
		if err := decodeExpr(expr, evalCtx, ty, target); err != nil {
			errs = append(errs, fmt.Errorf("attribute %q: %w", name, err))
			return
		}
		logger.Debug("Decoded settings attribute.", "attribute", name)
	}

	decode(root.LogLevel, "log_level", cty.String, &settings.LogLevel)
	decode(root.LogFormat, "log_format", cty.String, &settings.LogFormat)
	decode(root.ExtraCodegenCommands, "extra_codegen_commands", cty.List(cty.String), &settings.ExtraCodegenCommands)
	decode(root.Env, "env", cty.Map(cty.String), &settings.Env)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if settings.Env == nil {
		settings.Env = map[string]string{}
	}
	return settings, nil
}
