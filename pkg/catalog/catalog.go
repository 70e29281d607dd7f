package catalog

import (
	"context"
	"fmt"

	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/resource"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/aretw0/edgebridge/pkg/units"
)

// Install registers every operation, composite command and resource.
// Any error is a catalogue bug and should abort startup.
func Install(sess *session.Session, reg *registry.Registry, d *dispatch.Dispatcher, r *resource.Resolver) error {
	for _, op := range Operations(sess) {
		if err := reg.Register(op); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	for _, c := range Composites() {
		if err := d.Register(c); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	for _, spec := range Resources() {
		if err := r.Register(spec); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	return nil
}

// Operations returns every primitive bound to sess.
func Operations(sess *session.Session) []registry.Operation {
	b := &bindings{sess: sess}
	var ops []registry.Operation
	ops = append(ops, b.connection()...)
	ops = append(ops, b.documents()...)
	ops = append(ops, b.sketching()...)
	ops = append(ops, b.drawing()...)
	ops = append(ops, b.features()...)
	ops = append(ops, b.variables()...)
	ops = append(ops, b.queries()...)
	return ops
}

type bindings struct {
	sess *session.Session
}

// call performs one engine invocation. Arguments are already in engine units.
func (b *bindings) call(ctx context.Context, target domain.Ref, method string, args ...any) (any, error) {
	return b.sess.Engine().Invoke(ctx, ports.Call{Target: target, Method: method, Args: args})
}

// list invokes a listing method and returns its items.
func (b *bindings) list(ctx context.Context, target domain.Ref, method string) ([]any, error) {
	res, err := b.call(ctx, target, method)
	if err != nil {
		return nil, err
	}
	items, ok := res.([]any)
	if !ok && res != nil {
		return nil, fmt.Errorf("%s: unexpected result %T", method, res)
	}
	return items, nil
}

func length(name, description string) registry.Param {
	return registry.Param{Name: name, Type: schema.Float(), Required: true, Quantity: units.Length, Description: description}
}

func angle(name, description string) registry.Param {
	return registry.Param{Name: name, Type: schema.Float(), Required: true, Quantity: units.Angle, Description: description}
}

func required(name string, typ schema.Type, description string) registry.Param {
	return registry.Param{Name: name, Type: typ, Required: true, Description: description}
}

func optional(name string, typ schema.Type, def any, description string) registry.Param {
	return registry.Param{Name: name, Type: typ, Default: def, Description: description}
}
