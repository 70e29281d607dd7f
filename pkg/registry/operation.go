package registry

import (
	"context"
	"fmt"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/aretw0/edgebridge/pkg/units"
)

// DocumentParam is the optional explicit document selector every
// document-scoped operation accepts (handle ID, name or index).
const DocumentParam = "document"

// Effect classifies an operation's side effects.
// ReadOnly is load-bearing: only read-only operations may back a resource.
type Effect int

const (
	Mutating Effect = iota
	ReadOnly
)

func (e Effect) String() string {
	if e == ReadOnly {
		return "read-only"
	}
	return "mutating"
}

// Scope is the session context an operation needs before the engine is called.
type Scope int

const (
	// ScopeNone runs without any precondition (connect, status).
	ScopeNone Scope = iota
	// ScopeApplication needs a live connection.
	ScopeApplication
	// ScopeDocument needs a resolvable, live document.
	ScopeDocument
	// ScopeOpenSketch needs the document's sketch to be Open.
	ScopeOpenSketch
	// ScopeClosedProfile needs the document's sketch to be Closed.
	ScopeClosedProfile
)

func (s Scope) String() string {
	switch s {
	case ScopeApplication:
		return "application"
	case ScopeDocument:
		return "document"
	case ScopeOpenSketch:
		return "open-sketch"
	case ScopeClosedProfile:
		return "closed-profile"
	default:
		return "none"
	}
}

// NeedsDocument reports whether s resolves a document before execution.
func (s Scope) NeedsDocument() bool {
	return s >= ScopeDocument
}

// Param describes one operation parameter.
type Param struct {
	Name        string
	Type        schema.Type
	Required    bool
	Default     any
	Quantity    units.Quantity
	Description string
}

// Handler performs the operation. It receives arguments in engine units.
type Handler func(ctx context.Context, call *Call) (any, error)

// Operation is the immutable descriptor of one primitive.
type Operation struct {
	Name        string
	Description string
	Params      []Param
	Effect      Effect
	Scope       Scope
	// Returns maps result keys to the quantity they carry,
	// so geometric values can be converted back to caller units.
	Returns map[string]units.Quantity
	Handler Handler
}

// Param returns the named parameter.
func (op *Operation) Param(name string) (Param, bool) {
	for _, p := range op.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (op *Operation) validate() error {
	if op.Name == "" {
		return fmt.Errorf("operation has no name")
	}
	if op.Handler == nil {
		return fmt.Errorf("operation %q has no handler", op.Name)
	}
	seen := make(map[string]bool, len(op.Params))
	for _, p := range op.Params {
		if p.Name == "" {
			return fmt.Errorf("operation %q: parameter without name", op.Name)
		}
		if p.Type == nil {
			return fmt.Errorf("operation %q: parameter %q has no type", op.Name, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("operation %q: duplicate parameter %q", op.Name, p.Name)
		}
		if p.Required && p.Default != nil {
			return fmt.Errorf("operation %q: required parameter %q cannot have a default", op.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func withDocumentParam(scope Scope, params []Param) []Param {
	if !scope.NeedsDocument() {
		return params
	}
	for _, p := range params {
		if p.Name == DocumentParam {
			return params
		}
	}
	out := make([]Param, 0, len(params)+1)
	out = append(out, params...)
	return append(out, Param{
		Name:        DocumentParam,
		Type:        schema.String(),
		Description: "Target document (handle id, name or index). Defaults to the active document.",
	})
}

// Call is what a handler sees: the resolved context and its arguments.
type Call struct {
	Operation *Operation
	// Document is the resolved target, nil for scopes below ScopeDocument.
	Document *domain.DocumentHandle
	// Sketch is the document's sketch context for sketch scopes.
	Sketch *domain.Sketch
	// Args holds the variant's parameters in engine units, defaults filled.
	Args map[string]any
}

// Executor runs an operation against the session and engine.
// The composite dispatcher and the resource layer both reach handlers through it.
type Executor interface {
	Execute(ctx context.Context, op *Operation, args map[string]any) (any, error)
}
