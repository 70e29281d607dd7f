package catalog

import (
	"context"

	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
)

func (b *bindings) connection() []registry.Operation {
	return []registry.Operation{
		{
			Name:        "app.connect",
			Description: "Attach to the running engine, launching one when start_if_needed is true.",
			Params: []registry.Param{
				optional("start_if_needed", schema.Bool(), true, "Launch the engine when no instance is running."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeNone,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				info, err := b.sess.Connect(ctx, c.Bool("start_if_needed"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"connected": true, "app": info}, nil
			},
		},
		{
			Name:        "app.disconnect",
			Description: "Release the engine without closing it. Forgets every tracked document.",
			Effect:      registry.Mutating,
			Scope:       registry.ScopeNone,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				if err := b.sess.Disconnect(ctx); err != nil {
					return nil, err
				}
				return map[string]any{"connected": false}, nil
			},
		},
		{
			Name:        "app.quit",
			Description: "Ask the engine to exit, then disconnect.",
			Effect:      registry.Mutating,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				if err := b.sess.Quit(ctx); err != nil {
					return nil, err
				}
				return map[string]any{"connected": false, "quit": true}, nil
			},
		},
		{
			Name:        "app.activate",
			Description: "Bring the engine window to the foreground.",
			Effect:      registry.Mutating,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				return b.call(ctx, "", ports.MethodApplicationActivate)
			},
		},
		{
			Name:        "app.status",
			Description: "Probe the engine. A lost link reports connected=false.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeNone,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				return b.sess.Status(ctx), nil
			},
		},
		{
			Name:        "app.info",
			Description: "Identity of the attached engine.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				return b.sess.App()
			},
		},
	}
}
