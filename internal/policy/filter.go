// Package policy evaluates CEL filter expressions against planned
// resources, so a run can import a subset of the plan.
package policy

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"

	"github.com/plancraft/tgimport/internal/plan"
)

// Filter is a compiled resource filter expression. Expressions see the
// resource as top-level variables, e.g.
// `type.startsWith("google_") && module != ""`.
type Filter struct {
	program cel.Program
	expr    string
}

// Compile builds a filter from a CEL expression.
func Compile(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("address", decls.String),
			decls.NewVar("type", decls.String),
			decls.NewVar("name", decls.String),
			decls.NewVar("provider", decls.String),
			decls.NewVar("module", decls.String),
			decls.NewVar("values", decls.NewMapType(decls.String, decls.Dyn)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, err)
	}
	return &Filter{program: prg, expr: expr}, nil
}

// Match evaluates the filter for one resource. Evaluation errors count
// as no match and are logged, not fatal.
func (f *Filter) Match(res plan.Resource, moduleKey string) bool {
	if f == nil {
		return true
	}
	values := res.Values
	if values == nil {
		values = map[string]any{}
	}
	out, _, err := f.program.Eval(map[string]any{
		"address":  res.Address,
		"type":     res.Type,
		"name":     res.Name,
		"provider": res.ProviderName,
		"module":   moduleKey,
		"values":   values,
	})
	if err != nil {
		slog.Error("filter evaluation failed", "expr", f.expr, "address", res.Address, "error", err)
		return false
	}
	match, ok := out.Value().(bool)
	return ok && match
}
