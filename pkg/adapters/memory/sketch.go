package memory

import (
	"fmt"
	"math"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

// tolerance for matching segment end points, in metres.
const tolerance = 1e-9

type point struct{ x, y float64 }

type segment struct{ a, b point }

type circle struct {
	c point
	r float64
}

type profile struct {
	ref    domain.Ref
	doc    domain.Ref
	name   string
	plane  int
	lines  []segment
	arcs   []segment // stored by end points; the loop check only needs those
	arcC   []point
	constr []segment
	circs  []circle
	points []point
	closed bool
}

func (p *profile) elements() int {
	return len(p.lines) + len(p.arcs) + len(p.constr) + len(p.circs) + len(p.points)
}

func (e *Engine) profile(method string, ref domain.Ref) (*profile, error) {
	p, ok := e.profiles[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", method, ports.ErrStaleReference)
	}
	return p, nil
}

func (e *Engine) addProfile(target domain.Ref, args []any) (any, error) {
	if _, err := e.doc(ports.MethodProfileSetsAdd, target); err != nil {
		return nil, err
	}
	plane, err := argInt(ports.MethodProfileSetsAdd, args, 0)
	if err != nil {
		return nil, err
	}
	if plane < 1 || plane > len(refPlanes) {
		return nil, fault(ports.MethodProfileSetsAdd, "reference plane %d does not exist", plane)
	}
	p := &profile{ref: e.nextRef("profile"), doc: target, plane: plane}
	p.name = fmt.Sprintf("Sketch %d", len(e.profiles)+1)
	e.profiles[p.ref] = p
	return map[string]any{"ref": string(p.ref), "name": p.name}, nil
}

func (e *Engine) endProfile(target domain.Ref, _ []any) (any, error) {
	p, err := e.profile(ports.MethodProfileEnd, target)
	if err != nil {
		return nil, err
	}
	if len(p.lines)+len(p.arcs)+len(p.circs) == 0 {
		return nil, fault(ports.MethodProfileEnd, "profile has no geometry")
	}
	if !closedLoop(append(append([]segment(nil), p.lines...), p.arcs...)) {
		return nil, fault(ports.MethodProfileEnd, "profile is not closed")
	}
	p.closed = true
	return map[string]any{"status": "closed", "elements": p.elements()}, nil
}

func (e *Engine) profileInfo(target domain.Ref, _ []any) (any, error) {
	p, err := e.profile(ports.MethodProfileInfo, target)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"name":               p.name,
		"plane":              p.plane,
		"lines":              len(p.lines),
		"arcs":               len(p.arcs),
		"circles":            len(p.circs),
		"points":             len(p.points),
		"construction_lines": len(p.constr),
		"closed":             p.closed,
	}, nil
}

func (e *Engine) addElement(method string, target domain.Ref, args []any, n int, add func(p *profile, v []float64) error) (any, error) {
	p, err := e.profile(method, target)
	if err != nil {
		return nil, err
	}
	v, err := floats(method, args, 0, n)
	if err != nil {
		return nil, err
	}
	if err := add(p, v); err != nil {
		return nil, err
	}
	p.closed = false
	return map[string]any{"ref": string(e.nextRef("element")), "elements": p.elements()}, nil
}

func (e *Engine) addLine(target domain.Ref, args []any) (any, error) {
	return e.addElement(ports.MethodLinesAdd, target, args, 4, func(p *profile, v []float64) error {
		s := segment{point{v[0], v[1]}, point{v[2], v[3]}}
		if s.a.near(s.b) {
			return fault(ports.MethodLinesAdd, "line has zero length")
		}
		p.lines = append(p.lines, s)
		return nil
	})
}

func (e *Engine) addConstruction(target domain.Ref, args []any) (any, error) {
	return e.addElement(ports.MethodConstructionAdd, target, args, 4, func(p *profile, v []float64) error {
		p.constr = append(p.constr, segment{point{v[0], v[1]}, point{v[2], v[3]}})
		return nil
	})
}

func (e *Engine) addCircle(target domain.Ref, args []any) (any, error) {
	return e.addElement(ports.MethodCirclesAdd, target, args, 3, func(p *profile, v []float64) error {
		if v[2] <= 0 {
			return fault(ports.MethodCirclesAdd, "radius must be positive")
		}
		p.circs = append(p.circs, circle{point{v[0], v[1]}, v[2]})
		return nil
	})
}

func (e *Engine) addArc(target domain.Ref, args []any) (any, error) {
	return e.addElement(ports.MethodArcsAdd, target, args, 6, func(p *profile, v []float64) error {
		c := point{v[0], v[1]}
		s := segment{point{v[2], v[3]}, point{v[4], v[5]}}
		if math.Abs(c.dist(s.a)-c.dist(s.b)) > 1e-6 {
			return fault(ports.MethodArcsAdd, "start and end points are not equidistant from the center")
		}
		p.arcs = append(p.arcs, s)
		p.arcC = append(p.arcC, c)
		return nil
	})
}

func (e *Engine) addPoint(target domain.Ref, args []any) (any, error) {
	return e.addElement(ports.MethodPointsAdd, target, args, 2, func(p *profile, v []float64) error {
		p.points = append(p.points, point{v[0], v[1]})
		return nil
	})
}

func (a point) near(b point) bool {
	return math.Abs(a.x-b.x) <= tolerance && math.Abs(a.y-b.y) <= tolerance
}

func (a point) dist(b point) float64 {
	return math.Hypot(a.x-b.x, a.y-b.y)
}

// closedLoop reports whether every segment end point is shared by an even
// number of segment ends, i.e. the open curves form closed loops.
func closedLoop(segs []segment) bool {
	var ends []point
	var count []int
	visit := func(p point) {
		for i, q := range ends {
			if q.near(p) {
				count[i]++
				return
			}
		}
		ends = append(ends, p)
		count = append(count, 1)
	}
	for _, s := range segs {
		visit(s.a)
		visit(s.b)
	}
	for _, n := range count {
		if n%2 != 0 {
			return false
		}
	}
	return true
}

// area is the enclosed area of the profile in square metres.
// Line loops use the shoelace formula over the chained segments; circles add pi*r^2.
func (p *profile) area() float64 {
	total := 0.0
	for _, c := range p.circs {
		total += math.Pi * c.r * c.r
	}
	for _, loop := range chain(p.lines) {
		total += math.Abs(shoelace(loop))
	}
	return total
}

// bounds returns the 2D extent of the profile geometry.
func (p *profile) bounds() (min, max point) {
	min = point{math.Inf(1), math.Inf(1)}
	max = point{math.Inf(-1), math.Inf(-1)}
	grow := func(q point) {
		min.x, min.y = math.Min(min.x, q.x), math.Min(min.y, q.y)
		max.x, max.y = math.Max(max.x, q.x), math.Max(max.y, q.y)
	}
	for _, s := range append(append([]segment(nil), p.lines...), p.arcs...) {
		grow(s.a)
		grow(s.b)
	}
	for _, c := range p.circs {
		grow(point{c.c.x - c.r, c.c.y - c.r})
		grow(point{c.c.x + c.r, c.c.y + c.r})
	}
	return min, max
}

// chain orders segments into loops of vertices.
func chain(segs []segment) [][]point {
	used := make([]bool, len(segs))
	var loops [][]point
	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		loop := []point{segs[start].a, segs[start].b}
		cur := segs[start].b
		for {
			next := -1
			for i, s := range segs {
				if used[i] {
					continue
				}
				if s.a.near(cur) {
					next, cur = i, s.b
					break
				}
				if s.b.near(cur) {
					next, cur = i, s.a
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			if cur.near(loop[0]) {
				break
			}
			loop = append(loop, cur)
		}
		loops = append(loops, loop)
	}
	return loops
}

func shoelace(pts []point) float64 {
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].x*pts[j].y - pts[j].x*pts[i].y
	}
	return sum / 2
}
