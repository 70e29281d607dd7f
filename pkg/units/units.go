// Package units converts between caller-facing units and the engine's internal units.
//
// The engine works in metres and radians. Callers pick a linear and an angular
// unit once (configuration) and every parameter tagged with a Quantity is
// converted on the way in; geometric results are converted on the way out.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Quantity tags what a numeric value measures.
type Quantity int

const (
	None Quantity = iota
	Length
	Angle
	Area
	Volume
)

func (q Quantity) String() string {
	switch q {
	case Length:
		return "length"
	case Angle:
		return "angle"
	case Area:
		return "area"
	case Volume:
		return "volume"
	default:
		return "none"
	}
}

// Linear is a caller-facing length unit.
type Linear string

const (
	Metre      Linear = "m"
	Millimetre Linear = "mm"
	Centimetre Linear = "cm"
	Inch       Linear = "in"
	Foot       Linear = "ft"
)

// Angular is a caller-facing angle unit.
type Angular string

const (
	Degree Angular = "deg"
	Radian Angular = "rad"
)

var linearFactors = map[Linear]float64{
	Metre:      1,
	Millimetre: 0.001,
	Centimetre: 0.01,
	Inch:       0.0254,
	Foot:       0.3048,
}

// ParseLinear accepts the short unit names.
func ParseLinear(s string) (Linear, error) {
	u := Linear(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := linearFactors[u]; !ok {
		return "", fmt.Errorf("unknown linear unit %q", s)
	}
	return u, nil
}

// ParseAngular accepts "deg" and "rad" (and their long forms).
func ParseAngular(s string) (Angular, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deg", "degree", "degrees":
		return Degree, nil
	case "rad", "radian", "radians":
		return Radian, nil
	}
	return "", fmt.Errorf("unknown angular unit %q", s)
}

// System is the pair of caller units in effect for a bridge.
type System struct {
	Linear  Linear
	Angular Angular
}

// Default is metres and degrees, the units agents usually reason in.
func Default() System {
	return System{Linear: Metre, Angular: Degree}
}

// Parse builds a System from unit names. Empty names keep the default.
func Parse(linear, angular string) (System, error) {
	sys := Default()
	if linear != "" {
		l, err := ParseLinear(linear)
		if err != nil {
			return System{}, err
		}
		sys.Linear = l
	}
	if angular != "" {
		a, err := ParseAngular(angular)
		if err != nil {
			return System{}, err
		}
		sys.Angular = a
	}
	return sys, nil
}

// factor is the number of engine units in one caller unit of q.
func (s System) factor(q Quantity) float64 {
	l, ok := linearFactors[s.Linear]
	if !ok {
		l = 1
	}
	switch q {
	case Length:
		return l
	case Area:
		return l * l
	case Volume:
		return l * l * l
	case Angle:
		if s.Angular == Radian {
			return 1
		}
		return math.Pi / 180
	default:
		return 1
	}
}

// ToEngine converts a caller value to engine units.
func (s System) ToEngine(q Quantity, v float64) float64 {
	return v * s.factor(q)
}

// FromEngine converts an engine value to caller units.
func (s System) FromEngine(q Quantity, v float64) float64 {
	return v / s.factor(q)
}

// Label names the caller unit used for q, e.g. "mm" or "mm^3".
func (s System) Label(q Quantity) string {
	switch q {
	case Length:
		return string(s.Linear)
	case Area:
		return string(s.Linear) + "^2"
	case Volume:
		return string(s.Linear) + "^3"
	case Angle:
		return string(s.Angular)
	default:
		return ""
	}
}

// Convert applies ToEngine (toEngine=true) or FromEngine to a decoded JSON value.
// Numbers and slices of numbers are converted; anything else is returned as is.
func (s System) Convert(q Quantity, v any, toEngine bool) any {
	if q == None {
		return v
	}
	apply := s.FromEngine
	if toEngine {
		apply = s.ToEngine
	}
	switch n := v.(type) {
	case float64:
		return apply(q, n)
	case float32:
		return apply(q, float64(n))
	case int:
		return apply(q, float64(n))
	case int64:
		return apply(q, float64(n))
	case []float64:
		out := make([]float64, len(n))
		for i, x := range n {
			out[i] = apply(q, x)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, x := range n {
			out[i] = s.Convert(q, x, toEngine)
		}
		return out
	default:
		return v
	}
}
