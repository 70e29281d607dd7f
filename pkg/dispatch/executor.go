package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/aretw0/edgebridge/pkg/units"
)

// Executor runs one operation at a time against the session's engine.
// The engine is single-threaded per instance, so calls are serialized.
type Executor struct {
	mu      sync.Mutex
	session *session.Session
	units   units.System
	logger  *slog.Logger
}

// ExecutorOption configures the Executor.
type ExecutorOption func(*Executor)

// WithUnits sets the caller-facing unit system.
func WithUnits(sys units.System) ExecutorOption {
	return func(e *Executor) {
		e.units = sys
	}
}

// WithExecutorLogger configures a logger for the Executor.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor bound to sess.
func NewExecutor(sess *session.Session, opts ...ExecutorOption) *Executor {
	e := &Executor{
		session: sess,
		units:   units.Default(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the session the executor drives.
func (e *Executor) Session() *session.Session {
	return e.session
}

// Units returns the caller-facing unit system.
func (e *Executor) Units() units.System {
	return e.units
}

// Execute checks the operation's scope, converts arguments to engine units,
// calls the handler once and converts geometric results back.
// Context failures are returned before the engine is reached.
func (e *Executor) Execute(ctx context.Context, op *registry.Operation, args map[string]any) (result any, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	call, err := e.prepare(ctx, op, args)
	if err != nil {
		return nil, err
	}

	result, err = invoke(ctx, op.Handler, call)
	if err != nil {
		return nil, domain.OperationFailed(err)
	}
	if len(op.Returns) > 0 {
		result = convertResult(e.units, op.Returns, result)
	}
	if op.Effect == registry.Mutating {
		e.session.Persist(ctx)
	}
	return result, nil
}

func (e *Executor) prepare(ctx context.Context, op *registry.Operation, args map[string]any) (*registry.Call, error) {
	call := &registry.Call{Operation: op, Args: make(map[string]any, len(args))}

	if op.Scope >= registry.ScopeApplication && !e.session.Connected() {
		return nil, domain.NewError(domain.KindNotConnected, "not connected to the engine; call manage_connection first")
	}

	if op.Scope.NeedsDocument() {
		explicit, _ := args[registry.DocumentParam].(string)
		// Only mutating calls may prune a stale handle; reads leave the context untouched.
		doc, err := e.session.ResolveDocument(ctx, explicit, op.Effect == registry.Mutating)
		if err != nil {
			return nil, err
		}
		call.Document = &doc

		var sk domain.Sketch
		switch op.Scope {
		case registry.ScopeOpenSketch:
			sk, err = e.session.RequireOpen(doc.ID)
		case registry.ScopeClosedProfile:
			sk, err = e.session.RequireProfile(doc.ID)
		default:
			sk = e.session.Sketch(doc.ID)
		}
		if err != nil {
			return nil, err
		}
		call.Sketch = &sk
	}

	for k, v := range args {
		p, ok := op.Param(k)
		if !ok {
			continue
		}
		call.Args[k] = e.units.Convert(p.Quantity, v, true)
	}
	return call, nil
}

func invoke(ctx context.Context, h registry.Handler, call *registry.Call) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, envelope.Recovered(r)
		}
	}()
	return h(ctx, call)
}

// convertResult walks maps and slices and converts every value whose key
// is declared in returns from engine units back to caller units.
func convertResult(sys units.System, returns map[string]units.Quantity, v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			if q, ok := returns[k]; ok {
				out[k] = sys.Convert(q, x, false)
				continue
			}
			out[k] = convertResult(sys, returns, x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = convertResult(sys, returns, x)
		}
		return out
	default:
		return v
	}
}
