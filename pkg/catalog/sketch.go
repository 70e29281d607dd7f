package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/aretw0/edgebridge/pkg/units"
)

// Planes lists the accepted plane names. Top, Front and Right are the
// engine's default reference planes 1, 2 and 3; the axis names are aliases.
var Planes = []string{"Top", "Front", "Right", "XY", "XZ", "YZ"}

var planeIndex = map[string]int{
	"Top": 1, "XZ": 1,
	"Front": 2, "XY": 2,
	"Right": 3, "YZ": 3,
}

func planeName(index int) string {
	switch index {
	case 1:
		return "Top"
	case 2:
		return "Front"
	case 3:
		return "Right"
	}
	return fmt.Sprintf("RefPlane %d", index)
}

func (b *bindings) sketching() []registry.Operation {
	return []registry.Operation{
		{
			Name:        "sketch.open",
			Description: "Open a 2D sketch on a default reference plane.",
			Params: []registry.Param{
				optional("plane", schema.Enum(Planes...), "Top", "Reference plane."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				plane := c.String("plane")
				return b.sess.OpenSketch(ctx, *c.Document, plane, planeIndex[plane])
			},
		},
		{
			Name:        "sketch.open_by_index",
			Description: "Open a 2D sketch on a reference plane by its 1-based index.",
			Params: []registry.Param{
				required("plane_index", schema.Int(), "1-based reference plane index."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				i := c.Int("plane_index")
				return b.sess.OpenSketch(ctx, *c.Document, planeName(i), i)
			},
		},
		{
			Name:        "sketch.close",
			Description: "Close the open sketch. The engine rejects profiles that are not closed loops.",
			Effect:      registry.Mutating,
			Scope:       registry.ScopeOpenSketch,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.sess.CloseSketch(ctx, c.Document.ID)
			},
		},
		{
			Name:        "sketch.info",
			Description: "State of the document's sketch and, when one exists, its geometry counts.",
			Effect:      registry.ReadOnly,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				sk := *c.Sketch
				out := map[string]any{
					"state":    sk.State,
					"elements": sk.Elements,
				}
				if sk.State == domain.SketchIdle {
					return out, nil
				}
				out["name"] = sk.Name
				out["plane"] = sk.Plane
				info, err := b.call(ctx, sk.Profile, ports.MethodProfileInfo)
				if err != nil {
					return nil, err
				}
				out["profile"] = info
				return out, nil
			},
		},
	}
}

// segment is one engine call of a shape.
type segment struct {
	method string
	args   []any
}

func line(x1, y1, x2, y2 float64) segment {
	return segment{ports.MethodLinesAdd, []any{x1, y1, x2, y2}}
}

func (b *bindings) drawing() []registry.Operation {
	x1, y1 := length("x1", "Start X."), length("y1", "Start Y.")
	x2, y2 := length("x2", "End X."), length("y2", "End Y.")
	cx, cy := length("center_x", "Center X."), length("center_y", "Center Y.")
	radius := length("radius", "Radius.")

	return []registry.Operation{
		b.shape("draw.line", "Draw a line between two points.",
			[]registry.Param{x1, y1, x2, y2},
			func(c *registry.Call) ([]segment, error) {
				return []segment{line(c.Float("x1"), c.Float("y1"), c.Float("x2"), c.Float("y2"))}, nil
			}),
		b.shape("draw.circle", "Draw a circle by center and radius.",
			[]registry.Param{cx, cy, radius},
			func(c *registry.Call) ([]segment, error) {
				return []segment{{ports.MethodCirclesAdd, []any{c.Float("center_x"), c.Float("center_y"), c.Float("radius")}}}, nil
			}),
		b.shape("draw.arc", "Draw an arc by center, radius and start/end angles.",
			[]registry.Param{cx, cy, radius, angle("start_angle", "Start angle."), angle("end_angle", "End angle.")},
			func(c *registry.Call) ([]segment, error) {
				x, y, r := c.Float("center_x"), c.Float("center_y"), c.Float("radius")
				a0, a1 := c.Float("start_angle"), c.Float("end_angle")
				return []segment{{ports.MethodArcsAdd, []any{
					x, y,
					x + r*math.Cos(a0), y + r*math.Sin(a0),
					x + r*math.Cos(a1), y + r*math.Sin(a1),
				}}}, nil
			}),
		b.shape("draw.rectangle", "Draw an axis-aligned rectangle from two opposite corners (four lines).",
			[]registry.Param{x1, y1, x2, y2},
			func(c *registry.Call) ([]segment, error) {
				ax, ay, bx, by := c.Float("x1"), c.Float("y1"), c.Float("x2"), c.Float("y2")
				if ax == bx || ay == by {
					return nil, fmt.Errorf("rectangle corners must differ in both x and y")
				}
				return []segment{
					line(ax, ay, bx, ay),
					line(bx, ay, bx, by),
					line(bx, by, ax, by),
					line(ax, by, ax, ay),
				}, nil
			}),
		b.shape("draw.polygon", "Draw a regular polygon inscribed in a circle.",
			[]registry.Param{cx, cy, radius, required("sides", schema.Int(), "Number of sides (at least 3).")},
			func(c *registry.Call) ([]segment, error) {
				n := c.Int("sides")
				if n < 3 {
					return nil, fmt.Errorf("a polygon needs at least 3 sides, got %d", n)
				}
				x, y, r := c.Float("center_x"), c.Float("center_y"), c.Float("radius")
				vertex := func(i int) (float64, float64) {
					a := 2 * math.Pi * float64(i%n) / float64(n)
					return x + r*math.Cos(a), y + r*math.Sin(a)
				}
				out := make([]segment, 0, n)
				for i := 0; i < n; i++ {
					ax, ay := vertex(i)
					bx, by := vertex(i + 1)
					out = append(out, line(ax, ay, bx, by))
				}
				return out, nil
			}),
		b.shape("draw.polyline", "Draw connected lines through a flat list of x, y vertex pairs.",
			[]registry.Param{
				{Name: "points", Type: schema.Slice(schema.Float()), Required: true, Quantity: units.Length,
					Description: "Vertices as [x1, y1, x2, y2, ...]; at least two."},
				optional("closed", schema.Bool(), false, "Join the last vertex back to the first."),
			},
			func(c *registry.Call) ([]segment, error) {
				pts := c.Floats("points")
				if len(pts)%2 != 0 {
					return nil, fmt.Errorf("points must hold x, y pairs, got %d values", len(pts))
				}
				n := len(pts) / 2
				if n < 2 {
					return nil, fmt.Errorf("a polyline needs at least 2 vertices, got %d", n)
				}
				out := make([]segment, 0, n)
				for i := 0; i+1 < n; i++ {
					out = append(out, line(pts[2*i], pts[2*i+1], pts[2*i+2], pts[2*i+3]))
				}
				if c.Bool("closed") {
					if n < 3 {
						return nil, fmt.Errorf("a closed polyline needs at least 3 vertices, got %d", n)
					}
					out = append(out, line(pts[2*n-2], pts[2*n-1], pts[0], pts[1]))
				}
				return out, nil
			}),
		b.shape("draw.point", "Place a point.",
			[]registry.Param{length("x", "X."), length("y", "Y.")},
			func(c *registry.Call) ([]segment, error) {
				return []segment{{ports.MethodPointsAdd, []any{c.Float("x"), c.Float("y")}}}, nil
			}),
		b.shape("draw.construction_line", "Draw a construction line; it never belongs to the profile loop.",
			[]registry.Param{x1, y1, x2, y2},
			func(c *registry.Call) ([]segment, error) {
				return []segment{{ports.MethodConstructionAdd, []any{c.Float("x1"), c.Float("y1"), c.Float("x2"), c.Float("y2")}}}, nil
			}),
	}
}

// shape builds a draw operation. Every segment is appended to the open
// profile; the sketch's element count grows by the segments the engine accepted.
func (b *bindings) shape(name, description string, params []registry.Param, build func(*registry.Call) ([]segment, error)) registry.Operation {
	return registry.Operation{
		Name:        name,
		Description: description,
		Params:      params,
		Effect:      registry.Mutating,
		Scope:       registry.ScopeOpenSketch,
		Handler: func(ctx context.Context, c *registry.Call) (any, error) {
			segs, err := build(c)
			if err != nil {
				return nil, err
			}
			refs := make([]any, 0, len(segs))
			defer func() { b.sess.AddElements(c.Document.ID, len(refs)) }()
			for _, s := range segs {
				res, err := b.call(ctx, c.Sketch.Profile, s.method, s.args...)
				if err != nil {
					return nil, err
				}
				if m, ok := res.(map[string]any); ok {
					refs = append(refs, m["ref"])
				} else {
					refs = append(refs, res)
				}
			}
			return map[string]any{"shape": name, "elements": refs}, nil
		},
	}
}
