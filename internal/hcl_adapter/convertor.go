package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeExpr evaluates expr and stores the result in the Go value pointed to
// by target, converting it to ty first.
func decodeExpr(expr hcl.Expression, evalCtx *hcl.EvalContext, ty cty.Type, target any) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return fmt.Errorf("%s: value must not be null", expr.Range())
	}

	converted, err := convert.Convert(val, ty)
	if err != nil {
		return fmt.Errorf("%s: expected %s, got %s: %w", expr.Range(), ty.FriendlyName(), val.Type().FriendlyName(), err)
	}
	if !converted.IsWhollyKnown() {
		return fmt.Errorf("%s: value is not known", expr.Range())
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("%s: %w", expr.Range(), err)
	}
	return nil
}
