package catalog

import (
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/domain"
)

// Composites returns the externally visible commands in publication order.
func Composites() []dispatch.Composite {
	create := make([]dispatch.Variant, 0, len(domain.DocumentKinds))
	for _, kind := range domain.DocumentKinds {
		create = append(create, dispatch.Variant{Value: string(kind), Operation: "document.create_" + string(kind)})
	}

	return []dispatch.Composite{
		{
			Name:          "manage_connection",
			Description:   "Connect to, disconnect from, quit or bring forward the CAD application.",
			Discriminator: "action",
			Default:       "connect",
			Variants: []dispatch.Variant{
				{Value: "connect", Operation: "app.connect"},
				{Value: "disconnect", Operation: "app.disconnect"},
				{Value: "quit", Operation: "app.quit"},
				{Value: "activate", Operation: "app.activate"},
			},
		},
		{
			Name:          "create_document",
			Description:   "Create a new document of the given type; it becomes the active document.",
			Discriminator: "type",
			Default:       "part",
			Variants:      create,
		},
		{
			Name:          "open_document",
			Description:   "Open a file; it becomes the active document.",
			Discriminator: "method",
			Default:       "foreground",
			Variants: []dispatch.Variant{
				{Value: "foreground", Operation: "document.open"},
				{Value: "background", Operation: "document.open_background"},
			},
		},
		{
			Name:          "close_document",
			Description:   "Close the active document, a document by handle or every document.",
			Discriminator: "scope",
			Default:       "active",
			Variants: []dispatch.Variant{
				{Value: "active", Operation: "document.close"},
				{Value: "all", Operation: "document.close_all"},
				{Value: "by_handle", Operation: "document.close_by_handle"},
			},
		},
		{
			Name:          "save_document",
			Description:   "Save the active document, or save a copy of it.",
			Discriminator: "method",
			Default:       "save",
			Variants: []dispatch.Variant{
				{Value: "save", Operation: "document.save"},
				{Value: "copy_as", Operation: "document.save_copy"},
			},
		},
		{
			Name:          "activate_document",
			Description:   "Make another tracked document active.",
			Discriminator: "by",
			Default:       "handle",
			Variants: []dispatch.Variant{
				{Value: "handle", Operation: "document.activate"},
				{Value: "index", Operation: "document.activate_index"},
			},
		},
		{
			Name:          "undo_redo",
			Description:   "Undo or redo the last model change of the active document.",
			Discriminator: "action",
			Default:       "undo",
			Variants: []dispatch.Variant{
				{Value: "undo", Operation: "document.undo"},
				{Value: "redo", Operation: "document.redo"},
			},
		},
		{
			Name:          "manage_sketch",
			Description:   "Open a sketch on a reference plane, close it, or inspect it.",
			Discriminator: "action",
			Default:       "open",
			Variants: []dispatch.Variant{
				{Value: "open", Operation: "sketch.open"},
				{Value: "open_by_index", Operation: "sketch.open_by_index"},
				{Value: "close", Operation: "sketch.close"},
				{Value: "info", Operation: "sketch.info"},
			},
		},
		{
			Name:          "draw",
			Description:   "Add geometry to the open sketch.",
			Discriminator: "shape",
			Default:       "line",
			Variants: []dispatch.Variant{
				{Value: "line", Operation: "draw.line"},
				{Value: "circle", Operation: "draw.circle"},
				{Value: "arc", Operation: "draw.arc"},
				{Value: "rectangle", Operation: "draw.rectangle"},
				{Value: "polygon", Operation: "draw.polygon"},
				{Value: "polyline", Operation: "draw.polyline"},
				{Value: "point", Operation: "draw.point"},
				{Value: "construction_line", Operation: "draw.construction_line"},
			},
		},
		{
			Name:          "create_extrude",
			Description:   "Extrude the closed sketch profile into a protrusion.",
			Discriminator: "method",
			Default:       "finite",
			Variants: []dispatch.Variant{
				{Value: "finite", Operation: "extrude.finite"},
				{Value: "infinite", Operation: "extrude.infinite"},
				{Value: "symmetric", Operation: "extrude.symmetric"},
				{Value: "through_next", Operation: "extrude.through_next"},
				{Value: "from_to", Operation: "extrude.from_to"},
				{Value: "thin_wall", Operation: "extrude.thin_wall"},
			},
		},
		{
			Name:          "create_revolve",
			Description:   "Revolve the closed sketch profile into a protrusion.",
			Discriminator: "method",
			Default:       "full",
			Variants: []dispatch.Variant{
				{Value: "full", Operation: "revolve.full"},
				{Value: "finite", Operation: "revolve.finite"},
			},
		},
		{
			Name:          "create_cutout",
			Description:   "Remove material along the closed sketch profile.",
			Discriminator: "method",
			Default:       "finite",
			Variants: []dispatch.Variant{
				{Value: "finite", Operation: "cutout.finite"},
				{Value: "through_all", Operation: "cutout.through_all"},
			},
		},
		{
			Name:          "add_edge_treatment",
			Description:   "Round or chamfer the edges of the body.",
			Discriminator: "kind",
			Default:       "round",
			Variants: []dispatch.Variant{
				{Value: "round", Operation: "treatment.round"},
				{Value: "chamfer", Operation: "treatment.chamfer"},
			},
		},
		{
			Name:          "manage_variable",
			Description:   "Set or add a document variable.",
			Discriminator: "action",
			Default:       "set",
			Variants: []dispatch.Variant{
				{Value: "set", Operation: "variable.set"},
				{Value: "add", Operation: "variable.add"},
			},
		},
	}
}
