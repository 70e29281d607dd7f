package domain

// SketchState is the state of the 2D profile of one document.
type SketchState string

const (
	SketchIdle   SketchState = "idle"
	SketchOpen   SketchState = "open"
	SketchClosed SketchState = "closed"
)

// Sketch tracks the in-progress (or last closed) profile of a document.
type Sketch struct {
	State    SketchState `json:"state"`
	Name     string      `json:"name,omitempty"`
	Plane    string      `json:"plane,omitempty"`
	Profile  Ref         `json:"profile,omitempty"`
	Elements int         `json:"elements"`
}
