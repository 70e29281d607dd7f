package catalog

import (
	"context"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/aretw0/edgebridge/pkg/units"
)

func (b *bindings) queries() []registry.Operation {
	index := required("index", schema.Int(), "0-based position.")

	return []registry.Operation{
		{
			Name:        "document.list",
			Description: "Documents tracked by the session that are still open in the engine.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				docs, err := b.sess.ListOpen(ctx)
				if err != nil {
					return nil, err
				}
				active, _ := b.sess.Active()
				return map[string]any{"count": len(docs), "documents": docs, "active": active.ID}, nil
			},
		},
		{
			Name:        "document.count",
			Description: "Number of open documents.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, _ *registry.Call) (any, error) {
				docs, err := b.sess.ListOpen(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(docs)}, nil
			},
		},
		{
			Name:        "document.at",
			Description: "One open document by 0-based position.",
			Params:      []registry.Param{index},
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				docs, err := b.sess.ListOpen(ctx)
				if err != nil {
					return nil, err
				}
				i := c.Int("index")
				if i < 0 || i >= len(docs) {
					return nil, domain.Errorf(domain.KindInvalidResourceParameter, "no document at index %d (%d open)", i, len(docs))
				}
				return docs[i], nil
			},
		},
		{
			Name:        "document.active",
			Description: "The active document and its sketch state.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(_ context.Context, c *registry.Call) (any, error) {
				return map[string]any{"document": *c.Document, "sketch": *c.Sketch}, nil
			},
		},
		{
			Name:        "model.features",
			Description: "Features of the document's model in creation order.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				items, err := b.list(ctx, c.Document.Ref, ports.MethodModelsList)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(items), "features": items}, nil
			},
		},
		{
			Name:        "model.feature_count",
			Description: "Number of features in the document's model.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				items, err := b.list(ctx, c.Document.Ref, ports.MethodModelsList)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(items)}, nil
			},
		},
		{
			Name:        "model.feature",
			Description: "One feature by 0-based position.",
			Params:      []registry.Param{index},
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				items, err := b.list(ctx, c.Document.Ref, ports.MethodModelsList)
				if err != nil {
					return nil, err
				}
				i := c.Int("index")
				if i < 0 || i >= len(items) {
					return nil, domain.Errorf(domain.KindInvalidResourceParameter, "no feature at index %d (%d features)", i, len(items))
				}
				return items[i], nil
			},
		},
		{
			Name:        "model.ref_planes",
			Description: "Reference planes of the document.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				items, err := b.list(ctx, c.Document.Ref, ports.MethodRefPlanesList)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(items), "planes": items}, nil
			},
		},
		{
			Name:        "geometry.bounding_box",
			Description: "Axis-aligned extent of the body.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Returns:     map[string]units.Quantity{"min": units.Length, "max": units.Length},
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.call(ctx, c.Document.Ref, ports.MethodBodyRange)
			},
		},
		{
			Name:        "geometry.volume",
			Description: "Volume of the body.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Returns:     map[string]units.Quantity{"volume": units.Volume},
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.call(ctx, c.Document.Ref, ports.MethodBodyVolume)
			},
		},
		{
			Name:        "geometry.mass_properties",
			Description: "Volume, mass and center of mass of the body for a density in kg/m^3.",
			Params: []registry.Param{
				required("density", schema.Float(), "Material density in kg/m^3."),
			},
			Effect: registry.ReadOnly,
			Scope:  registry.ScopeDocument,
			Returns: map[string]units.Quantity{
				"volume":         units.Volume,
				"center_of_mass": units.Length,
			},
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.call(ctx, c.Document.Ref, ports.MethodBodyMassProperties, c.Float("density"))
			},
		},
	}
}
