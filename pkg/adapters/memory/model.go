package memory

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

type feature struct {
	ref     domain.Ref
	name    string
	typ     string
	profile domain.Ref
	volume  float64 // signed: cutouts remove material
	min     [3]float64
	max     [3]float64
	solid   bool // contributes to the body extent
}

type variable struct {
	name    string
	value   float64
	formula string
}

// solid is the geometric outcome of one profile-based feature.
type solid struct {
	volume float64
	min    [3]float64
	max    [3]float64
}

type builder func(method string, p *profile, body *solid, args []any) (solid, error)

// feature returns the engine method for a profile-based feature of type typ.
// args[0] is the closed profile; the rest is passed to build.
func (e *Engine) feature(typ string, build builder) method {
	return func(target domain.Ref, args []any) (any, error) {
		method := "Models.Add" + typ
		d, err := e.doc(method, target)
		if err != nil {
			return nil, err
		}
		pref, err := argString(method, args, 0)
		if err != nil {
			return nil, err
		}
		p, err := e.profile(method, domain.Ref(pref))
		if err != nil {
			return nil, err
		}
		if p.doc != d.ref {
			return nil, fault(method, "profile belongs to another document")
		}
		if !p.closed {
			return nil, fault(method, "profile is not closed")
		}

		body, hasBody := d.body()
		var bodyRef *solid
		if hasBody {
			bodyRef = &body
		}
		s, err := build(method, p, bodyRef, args[1:])
		if err != nil {
			return nil, err
		}

		if s.volume < 0 && !hasBody {
			return nil, fault(method, "there is no body to cut")
		}

		d.checkpoint()
		f := &feature{
			ref:     e.nextRef("feature"),
			name:    fmt.Sprintf("%s %d", typ, countType(d.features, typ)+1),
			typ:     typ,
			profile: p.ref,
			volume:  s.volume,
			min:     s.min,
			max:     s.max,
			solid:   s.volume > 0,
		}
		d.features = append(d.features, f)
		return f.info(len(d.features) - 1), nil
	}
}

// treatment returns the engine method for an edge round or chamfer.
func (e *Engine) treatment(typ string) method {
	return func(target domain.Ref, args []any) (any, error) {
		method := typ + "s.Add"
		d, err := e.doc(method, target)
		if err != nil {
			return nil, err
		}
		size, err := argFloat(method, args, 0)
		if err != nil {
			return nil, err
		}
		if size <= 0 {
			return nil, fault(method, "%s size must be positive", strings.ToLower(typ))
		}
		body, ok := d.body()
		if !ok {
			return nil, fault(method, "model has no body")
		}
		for i := 0; i < 3; i++ {
			if size*2 >= body.max[i]-body.min[i] {
				return nil, fault(method, "%s size %.4g is too large for the body", strings.ToLower(typ), size)
			}
		}
		d.checkpoint()
		f := &feature{
			ref:  e.nextRef("feature"),
			name: fmt.Sprintf("%s %d", typ, countType(d.features, typ)+1),
			typ:  typ,
		}
		d.features = append(d.features, f)
		return f.info(len(d.features) - 1), nil
	}
}

func countType(fs []*feature, typ string) int {
	n := 0
	for _, f := range fs {
		if f.typ == typ {
			n++
		}
	}
	return n
}

func (f *feature) info(index int) map[string]any {
	out := map[string]any{
		"index": index,
		"ref":   string(f.ref),
		"name":  f.name,
		"type":  f.typ,
	}
	if f.profile != "" {
		out["profile"] = string(f.profile)
	}
	return out
}

// body folds the document's features into one solid.
func (d *document) body() (solid, bool) {
	var b solid
	found := false
	for _, f := range d.features {
		b.volume += f.volume
		if !f.solid {
			continue
		}
		if !found {
			b.min, b.max = f.min, f.max
			found = true
			continue
		}
		for i := 0; i < 3; i++ {
			b.min[i] = math.Min(b.min[i], f.min[i])
			b.max[i] = math.Max(b.max[i], f.max[i])
		}
	}
	if b.volume < 0 {
		b.volume = 0
	}
	return b, found
}

// place maps a profile extent on its plane and a normal extent [lo, hi] to a 3D box.
func place(p *profile, lo, hi float64) (min, max [3]float64) {
	a, b := p.bounds()
	switch p.plane {
	case 2: // Front (XY), normal Z
		return [3]float64{a.x, a.y, lo}, [3]float64{b.x, b.y, hi}
	case 3: // Right (YZ), normal X
		return [3]float64{lo, a.x, a.y}, [3]float64{hi, b.x, b.y}
	default: // Top (XZ), normal Y
		return [3]float64{a.x, lo, a.y}, [3]float64{b.x, hi, b.y}
	}
}

// normalAxis is the 3D axis perpendicular to the profile plane.
func normalAxis(p *profile) int {
	switch p.plane {
	case 2:
		return 2
	case 3:
		return 0
	default:
		return 1
	}
}

func direction(args []any, i int) float64 {
	if strings.EqualFold(optString(args, i), "reverse") {
		return -1
	}
	return 1
}

func extent(sign, depth float64) (float64, float64) {
	if sign < 0 {
		return -depth, 0
	}
	return 0, depth
}

func positive(method, what string, v float64) error {
	if v <= 0 {
		return fault(method, "%s must be positive", what)
	}
	return nil
}

func prism(p *profile, lo, hi, sign float64) solid {
	min, max := place(p, lo, hi)
	return solid{volume: sign * p.area() * (hi - lo), min: min, max: max}
}

// args: distance, direction
func extrudeFinite(method string, p *profile, _ *solid, args []any) (solid, error) {
	d, err := argFloat(method, args, 0)
	if err != nil {
		return solid{}, err
	}
	if err := positive(method, "distance", d); err != nil {
		return solid{}, err
	}
	lo, hi := extent(direction(args, 1), d)
	return prism(p, lo, hi, 1), nil
}

// args: distance (total, split across both sides)
func extrudeSymmetric(method string, p *profile, _ *solid, args []any) (solid, error) {
	d, err := argFloat(method, args, 0)
	if err != nil {
		return solid{}, err
	}
	if err := positive(method, "distance", d); err != nil {
		return solid{}, err
	}
	return prism(p, -d/2, d/2, 1), nil
}

// args: direction. Extends up to the far side of the existing body.
func extrudeThroughAll(method string, p *profile, body *solid, args []any) (solid, error) {
	if body == nil {
		return solid{}, fault(method, "no body to extend to")
	}
	axis := normalAxis(p)
	if direction(args, 0) < 0 {
		return prism(p, body.min[axis], 0, 1), nil
	}
	return prism(p, 0, body.max[axis], 1), nil
}

// args: from offset, to offset
func extrudeFromTo(method string, p *profile, _ *solid, args []any) (solid, error) {
	v, err := floats(method, args, 0, 2)
	if err != nil {
		return solid{}, err
	}
	lo, hi := math.Min(v[0], v[1]), math.Max(v[0], v[1])
	if hi-lo <= 0 {
		return solid{}, fault(method, "from and to offsets must differ")
	}
	return prism(p, lo, hi, 1), nil
}

// args: distance, wall thickness
func extrudeThinWall(method string, p *profile, _ *solid, args []any) (solid, error) {
	v, err := floats(method, args, 0, 2)
	if err != nil {
		return solid{}, err
	}
	if err := positive(method, "distance", v[0]); err != nil {
		return solid{}, err
	}
	if err := positive(method, "wall thickness", v[1]); err != nil {
		return solid{}, err
	}
	a, b := p.bounds()
	perimeter := 2 * ((b.x - a.x) + (b.y - a.y))
	s := prism(p, 0, v[0], 1)
	s.volume = math.Min(s.volume, perimeter*v[1]*v[0])
	return s, nil
}

// args: axis ("x"|"y")
func revolveFull(method string, p *profile, body *solid, args []any) (solid, error) {
	return revolveFinite(method, p, body, append([]any{optString(args, 0)}, 2*math.Pi))
}

// args: axis ("x"|"y"), angle in radians
func revolveFinite(method string, p *profile, _ *solid, args []any) (solid, error) {
	axis := strings.ToLower(optString(args, 0))
	if axis == "" {
		axis = "y"
	}
	if axis != "x" && axis != "y" {
		return solid{}, fault(method, "axis must be x or y, got %q", axis)
	}
	angle, err := argFloat(method, args, 1)
	if err != nil {
		return solid{}, err
	}
	if angle <= 0 || angle > 2*math.Pi+1e-9 {
		return solid{}, fault(method, "revolve angle must be in (0, 2pi]")
	}
	a, b := p.bounds()
	var radius, centroid float64
	if axis == "x" {
		radius = math.Max(math.Abs(a.y), math.Abs(b.y))
		centroid = math.Abs((a.y + b.y) / 2)
	} else {
		radius = math.Max(math.Abs(a.x), math.Abs(b.x))
		centroid = math.Abs((a.x + b.x) / 2)
	}
	min, max := place(p, -radius, radius)
	return solid{volume: p.area() * angle * centroid, min: min, max: max}, nil
}

// args: distance, direction
func cutoutFinite(method string, p *profile, body *solid, args []any) (solid, error) {
	if body == nil {
		return solid{}, fault(method, "there is no body to cut")
	}
	s, err := extrudeFinite(method, p, body, args)
	if err != nil {
		return solid{}, err
	}
	s.volume = -s.volume
	return s, nil
}

// args: direction
func cutoutThroughAll(method string, p *profile, body *solid, args []any) (solid, error) {
	if body == nil {
		return solid{}, fault(method, "there is no body to cut")
	}
	axis := normalAxis(p)
	s := prism(p, body.min[axis], body.max[axis], -1)
	return s, nil
}

func (e *Engine) listFeatures(target domain.Ref, _ []any) (any, error) {
	d, err := e.doc(ports.MethodModelsList, target)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(d.features))
	for i, f := range d.features {
		out = append(out, f.info(i))
	}
	return out, nil
}

func (e *Engine) listVariables(target domain.Ref, _ []any) (any, error) {
	d, err := e.doc(ports.MethodVariablesList, target)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(d.variables))
	for _, v := range d.variables {
		out = append(out, map[string]any{"name": v.name, "value": v.value, "formula": v.formula})
	}
	return out, nil
}

func (d *document) variable(name string) *variable {
	for _, v := range d.variables {
		if strings.EqualFold(v.name, name) {
			return v
		}
	}
	return nil
}

// args: name, value
func (e *Engine) editVariable(target domain.Ref, args []any) (any, error) {
	d, err := e.doc(ports.MethodVariablesEdit, target)
	if err != nil {
		return nil, err
	}
	name, err := argString(ports.MethodVariablesEdit, args, 0)
	if err != nil {
		return nil, err
	}
	value, err := argFloat(ports.MethodVariablesEdit, args, 1)
	if err != nil {
		return nil, err
	}
	if d.variable(name) == nil {
		return nil, fault(ports.MethodVariablesEdit, "variable %q not found", name)
	}
	d.checkpoint()
	v := d.variable(name)
	v.value = value
	v.formula = ""
	return map[string]any{"name": v.name, "value": v.value}, nil
}

// args: name, value, formula
func (e *Engine) addVariable(target domain.Ref, args []any) (any, error) {
	d, err := e.doc(ports.MethodVariablesAdd, target)
	if err != nil {
		return nil, err
	}
	name, err := argString(ports.MethodVariablesAdd, args, 0)
	if err != nil {
		return nil, err
	}
	if d.variable(name) != nil {
		return nil, fault(ports.MethodVariablesAdd, "variable %q already exists", name)
	}
	value, err := argFloat(ports.MethodVariablesAdd, args, 1)
	if err != nil {
		return nil, err
	}
	d.checkpoint()
	v := &variable{name: name, value: value, formula: optString(args, 2)}
	d.variables = append(d.variables, v)
	return map[string]any{"name": v.name, "value": v.value, "formula": v.formula}, nil
}

func (e *Engine) solidOf(method string, target domain.Ref) (solid, error) {
	d, err := e.doc(method, target)
	if err != nil {
		return solid{}, err
	}
	b, ok := d.body()
	if !ok {
		return solid{}, fault(method, "model has no body")
	}
	return b, nil
}

func (e *Engine) bodyRange(target domain.Ref, _ []any) (any, error) {
	b, err := e.solidOf(ports.MethodBodyRange, target)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"min": []any{b.min[0], b.min[1], b.min[2]},
		"max": []any{b.max[0], b.max[1], b.max[2]},
	}, nil
}

func (e *Engine) bodyVolume(target domain.Ref, _ []any) (any, error) {
	b, err := e.solidOf(ports.MethodBodyVolume, target)
	if err != nil {
		return nil, err
	}
	return map[string]any{"volume": b.volume}, nil
}

// args: density in kg/m^3
func (e *Engine) massProperties(target domain.Ref, args []any) (any, error) {
	b, err := e.solidOf(ports.MethodBodyMassProperties, target)
	if err != nil {
		return nil, err
	}
	density, err := argFloat(ports.MethodBodyMassProperties, args, 0)
	if err != nil {
		return nil, err
	}
	if density <= 0 {
		return nil, fault(ports.MethodBodyMassProperties, "density must be positive")
	}
	center := []any{
		(b.min[0] + b.max[0]) / 2,
		(b.min[1] + b.max[1]) / 2,
		(b.min[2] + b.max[2]) / 2,
	}
	return map[string]any{
		"volume":         b.volume,
		"density":        density,
		"mass":           b.volume * density,
		"center_of_mass": center,
	}, nil
}
