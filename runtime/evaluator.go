package runtime

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/expr-lang/expr"
)

// expressionPattern matches one ${ ... } segment inside a parameter string.
var expressionPattern = regexp.MustCompile(`\$\{\s*(.+?)\s*\}`)

// ExpressionEvaluator evaluates ${ ... } expressions in node parameters using
// the expr-lang library. The environment is the execution's values: json
// (the current item), index and node.
type ExpressionEvaluator struct{}

func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// Eval compiles and runs a single expression against env.
func (e *ExpressionEvaluator) Eval(expression string, env map[string]any) (any, error) {
	// defined() distinguishes a missing path from a null value
	// Usage: defined("json.domain")
	definedFn := expr.Function(
		"defined",
		func(params ...any) (any, error) {
			path, ok := params[0].(string)
			if !ok {
				return false, fmt.Errorf("defined() expects string path argument, got %T", params[0])
			}
			return gabs.Wrap(env).ExistsP(path), nil
		},
		new(func(string) bool),
	)

	// NOTE: expr.Env MUST come before AllowUndefinedVariables for it to work
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(), // Missing variables return nil instead of compile error
		definedFn,
	)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

// Resolve walks a parameter value and evaluates every expression it holds.
// A string that is exactly one ${ expr } yields the expression's typed result;
// a string with expressions embedded in text is interpolated.
func (e *ExpressionEvaluator) Resolve(value any, env map[string]any) (any, error) {
	return e.resolve("", value, env)
}

// ResolveParameters resolves a whole parameter map for one item.
func (e *ExpressionEvaluator) ResolveParameters(params map[string]any, env map[string]any) (map[string]any, error) {
	resolved, err := e.resolve("", params, env)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return map[string]any{}, nil
	}
	return resolved.(map[string]any), nil
}

func (e *ExpressionEvaluator) resolve(path string, value any, env map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return e.resolveString(path, v, env)
	case map[string]any:
		if v == nil {
			return nil, nil
		}
		evaluated := make(map[string]any, len(v))
		for key, val := range v {
			r, err := e.resolve(joinPath(path, key), val, env)
			if err != nil {
				return nil, err
			}
			evaluated[key] = r
		}
		return evaluated, nil
	case []any:
		evaluated := make([]any, len(v))
		for i, val := range v {
			r, err := e.resolve(fmt.Sprintf("%s[%d]", path, i), val, env)
			if err != nil {
				return nil, err
			}
			evaluated[i] = r
		}
		return evaluated, nil
	default:
		// Literal values (int, bool, float64, nil) pass through
		return value, nil
	}
}

func (e *ExpressionEvaluator) resolveString(path, s string, env map[string]any) (any, error) {
	matches := expressionPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	// Whole-string expression keeps its type
	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		result, err := e.Eval(s[matches[0][2]:matches[0][3]], env)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: error evaluating expression '%s': %w", path, s, err)
		}
		return result, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		result, err := e.Eval(s[m[2]:m[3]], env)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: error evaluating expression '%s': %w", path, s[m[0]:m[1]], err)
		}
		if result != nil {
			b.WriteString(fmt.Sprint(result))
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
