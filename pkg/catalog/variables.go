package catalog

import (
	"context"
	"strings"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
)

type variableArgs struct {
	Name    string  `mapstructure:"name"`
	Value   float64 `mapstructure:"value"`
	Formula string  `mapstructure:"formula"`
}

func (b *bindings) variables() []registry.Operation {
	name := required("name", schema.String(), "Variable name.")
	value := required("value", schema.Float(), "Numeric value in the document's internal units.")

	return []registry.Operation{
		{
			Name:        "variable.set",
			Description: "Set an existing variable to a value.",
			Params:      []registry.Param{name, value},
			Effect:      registry.Mutating,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				var in variableArgs
				if err := c.Decode(&in); err != nil {
					return nil, err
				}
				return b.call(ctx, c.Document.Ref, ports.MethodVariablesEdit, in.Name, in.Value)
			},
		},
		{
			Name:        "variable.add",
			Description: "Add a variable with a value and an optional formula.",
			Params: []registry.Param{
				name, value,
				optional("formula", schema.String(), nil, "Formula driving the variable."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				var in variableArgs
				if err := c.Decode(&in); err != nil {
					return nil, err
				}
				return b.call(ctx, c.Document.Ref, ports.MethodVariablesAdd, in.Name, in.Value, in.Formula)
			},
		},
		{
			Name:        "variable.list",
			Description: "Every variable of the document.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				items, err := b.list(ctx, c.Document.Ref, ports.MethodVariablesList)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(items), "variables": items}, nil
			},
		},
		{
			Name:        "variable.get",
			Description: "One variable by name (case-insensitive).",
			Params:      []registry.Param{name},
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				items, err := b.list(ctx, c.Document.Ref, ports.MethodVariablesList)
				if err != nil {
					return nil, err
				}
				want := c.String("name")
				for _, it := range items {
					if m, ok := it.(map[string]any); ok {
						if n, _ := m["name"].(string); strings.EqualFold(n, want) {
							return m, nil
						}
					}
				}
				return nil, domain.Errorf(domain.KindInvalidResourceParameter, "no variable named %q", want)
			},
		},
	}
}
