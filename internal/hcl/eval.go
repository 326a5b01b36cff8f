package hcl

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions is the set of functions available to every expression.
func functions() map[string]function.Function {
	return map[string]function.Function{
		"range":     stdlib.RangeFunc,
		"concat":    stdlib.ConcatFunc,
		"length":    stdlib.LengthFunc,
		"chunklist": stdlib.ChunklistFunc,
		"flatten":   stdlib.FlattenFunc,
		"reverse":   stdlib.ReverseListFunc,
		"min":       stdlib.MinFunc,
		"max":       stdlib.MaxFunc,
	}
}

// newEvalContext returns the base evaluation context: functions only, no
// variables.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Functions: functions()}
}

// withLocals evaluates every attribute of the given locals blocks against
// base and returns a child context exposing them as `local.<name>`. Locals
// cannot reference each other.
func withLocals(base *hcl.EvalContext, blocks []*localsBlock) (*hcl.EvalContext, error) {
	values := make(map[string]cty.Value)
	for _, block := range blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
		// Sorted so that diagnostics are stable.
		for _, name := range slices.Sorted(maps.Keys(attrs)) {
			if _, dup := values[name]; dup {
				return nil, fmt.Errorf("local %q is declared more than once", name)
			}
			v, diags := attrs[name].Expr.Value(base)
			if diags.HasErrors() {
				return nil, diags
			}
			values[name] = v
		}
	}

	ctx := base.NewChild()
	local := cty.EmptyObjectVal
	if len(values) > 0 {
		local = cty.ObjectVal(values)
	}
	ctx.Variables = map[string]cty.Value{"local": local}
	return ctx, nil
}
