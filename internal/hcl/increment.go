package hcl

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/stepgrid/internal/scheduler"
)

var functions = map[string]function.Function{
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
	"strlen": stdlib.StrlenFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
	"abs":    stdlib.AbsoluteFunc,
}

// Increment evaluates expr once per task.
func Increment(expr hcl.Expression) scheduler.PositionalIncrementFunc {
	return func(task string, position int) (int, error) {
		val, diags := expr.Value(evalContext(task, position))
		if diags.HasErrors() {
			return 0, diags
		}
		return toInt(val)
	}
}

// ParseIncrement parses a standalone increment expression, such as one
// embedded in a YAML plan. filename only labels diagnostics.
func ParseIncrement(src, filename string) (scheduler.PositionalIncrementFunc, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid increment expression %q: %w", src, diags)
	}
	if err := checkVariables(expr); err != nil {
		return nil, fmt.Errorf("increment expression %q: %w", src, err)
	}
	return Increment(expr), nil
}

// checkVariables rejects references to anything but task, ordinal and
// position.
func checkVariables(expr hcl.Expression) error {
	for _, traversal := range expr.Variables() {
		switch name := traversal.RootName(); name {
		case "task", "ordinal", "position":
		default:
			return fmt.Errorf("unknown variable %q", name)
		}
	}
	return nil
}

func evalContext(task string, position int) *hcl.EvalContext {
	ordinal := cty.NullVal(cty.Number)
	if n, ok := scheduler.Ordinal(task); ok {
		ordinal = cty.NumberIntVal(int64(n))
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"task":     cty.StringVal(task),
			"ordinal":  ordinal,
			"position": cty.NumberIntVal(int64(position)),
		},
		Functions: functions,
	}
}

func toInt(val cty.Value) (int, error) {
	if val.IsNull() {
		return 0, errors.New("increment evaluated to null")
	}
	if !val.IsWhollyKnown() {
		return 0, errors.New("increment is not known")
	}
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("increment must be a number: %w", err)
	}
	var n int
	if err := gocty.FromCtyValue(num, &n); err != nil {
		return 0, fmt.Errorf("increment must be a whole number: %w", err)
	}
	return n, nil
}
