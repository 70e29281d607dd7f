package catalog

import (
	"context"

	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
)

// Directions are the extent directions relative to the profile plane normal.
var Directions = []string{"Normal", "Reverse"}

func (b *bindings) features() []registry.Operation {
	distance := length("distance", "Extent along the plane normal.")
	direction := optional("direction", schema.Enum(Directions...), "Normal", "Side of the profile plane.")
	axis := optional("axis", schema.Enum("x", "y"), "y", "Sketch axis to revolve around.")

	return []registry.Operation{
		b.profileFeature("extrude.finite", ports.MethodExtrudeFinite,
			"Extrude the closed profile by a distance.", distance, direction),
		b.profileFeature("extrude.infinite", ports.MethodExtrudeInfinite,
			"Extrude the closed profile through the whole body.", direction),
		b.profileFeature("extrude.symmetric", ports.MethodExtrudeSymmetric,
			"Extrude the closed profile symmetrically; distance is the total extent.", distance),
		b.profileFeature("extrude.through_next", ports.MethodExtrudeThroughNext,
			"Extrude the closed profile up to the next face.", direction),
		b.profileFeature("extrude.from_to", ports.MethodExtrudeFromTo,
			"Extrude the closed profile between two offsets from its plane.",
			length("from_offset", "Start offset from the profile plane."),
			length("to_offset", "End offset from the profile plane.")),
		b.profileFeature("extrude.thin_wall", ports.MethodExtrudeThinWall,
			"Extrude the closed profile as a thin wall.",
			distance, length("wall_thickness", "Wall thickness.")),
		b.profileFeature("revolve.full", ports.MethodRevolveFull,
			"Revolve the closed profile a full turn.", axis),
		b.profileFeature("revolve.finite", ports.MethodRevolveFinite,
			"Revolve the closed profile by an angle.", axis, angle("angle", "Sweep angle.")),
		b.profileFeature("cutout.finite", ports.MethodCutoutFinite,
			"Cut the closed profile into the body by a distance.", distance, direction),
		b.profileFeature("cutout.through_all", ports.MethodCutoutThroughAll,
			"Cut the closed profile through the whole body.", direction),
		b.treatment("treatment.round", ports.MethodRoundAdd,
			"Round every edge of the body.", length("radius", "Round radius.")),
		b.treatment("treatment.chamfer", ports.MethodChamferAdd,
			"Chamfer every edge of the body with an equal setback.", length("distance", "Setback distance.")),
	}
}

// profileFeature consumes the document's closed profile. The profile is
// read, not destroyed: it stays Closed for the next feature.
func (b *bindings) profileFeature(name, method, description string, params ...registry.Param) registry.Operation {
	return registry.Operation{
		Name:        name,
		Description: description,
		Params:      params,
		Effect:      registry.Mutating,
		Scope:       registry.ScopeClosedProfile,
		Handler: func(ctx context.Context, c *registry.Call) (any, error) {
			args := make([]any, 0, len(params)+1)
			args = append(args, string(c.Sketch.Profile))
			for _, p := range params {
				args = append(args, c.Args[p.Name])
			}
			return b.call(ctx, c.Document.Ref, method, args...)
		},
	}
}

func (b *bindings) treatment(name, method, description string, size registry.Param) registry.Operation {
	return registry.Operation{
		Name:        name,
		Description: description,
		Params:      []registry.Param{size},
		Effect:      registry.Mutating,
		Scope:       registry.ScopeDocument,
		Handler: func(ctx context.Context, c *registry.Call) (any, error) {
			return b.call(ctx, c.Document.Ref, method, c.Float(size.Name))
		},
	}
}
