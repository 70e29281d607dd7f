// Package resource resolves read-only, URI-addressed queries.
//
// A Spec binds a URI template (RFC 6570, e.g. "solidedge://model/feature/{index}")
// to a read-only registry operation. Placeholders are extracted from the URI,
// coerced with the Spec's parameter schema and passed to the operation. Binding a
// mutating operation is rejected at registration.
package resource

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/yosida95/uritemplate/v3"
)

// Scheme is the URI scheme of every resource the bridge publishes.
const Scheme = "solidedge"

// Spec describes one resource or resource template.
type Spec struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Operation   string
	// Params types the URI placeholders. Untyped placeholders are passed as strings.
	Params schema.Schema
}

// Templated reports whether the URI has placeholders.
func (s Spec) Templated() bool {
	return expression.MatchString(s.URI)
}

var expression = regexp.MustCompile(`\{[^}]*\}`)

type entry struct {
	spec    Spec
	tmpl    *uritemplate.Template
	op      *registry.Operation
	literal int
	vars    int
}

// Resolver matches URIs against registered specs and executes them.
type Resolver struct {
	registry *registry.Registry
	exec     registry.Executor

	mu      sync.RWMutex
	entries []*entry

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger configures a logger for the Resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithHooks registers the OnRead hook.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Resolver) {
		r.hooks = hooks
	}
}

// New creates a Resolver over reg that executes through exec.
func New(reg *registry.Registry, exec registry.Executor, opts ...Option) *Resolver {
	r := &Resolver{
		registry: reg,
		exec:     exec,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates spec and adds it. Errors are configuration errors.
func (r *Resolver) Register(spec Spec) error {
	tmpl, err := uritemplate.New(spec.URI)
	if err != nil {
		return fmt.Errorf("resource %q: %w", spec.URI, err)
	}
	op, ok := r.registry.Lookup(spec.Operation)
	if !ok {
		return fmt.Errorf("resource %q: operation %q is not registered", spec.URI, spec.Operation)
	}
	if op.Effect != registry.ReadOnly {
		return fmt.Errorf("resource %q: operation %q is %s; resources only bind read-only operations",
			spec.URI, op.Name, op.Effect)
	}

	vars := tmpl.Varnames()
	bound := make(map[string]bool, len(vars))
	for _, name := range vars {
		p, ok := op.Param(name)
		if !ok {
			return fmt.Errorf("resource %q: placeholder {%s} is not a parameter of %q", spec.URI, name, op.Name)
		}
		if t, ok := spec.Params[name]; ok && t.Name() != p.Type.Name() {
			return fmt.Errorf("resource %q: placeholder {%s} is %s but %q expects %s",
				spec.URI, name, t.Name(), op.Name, p.Type.Name())
		}
		bound[name] = true
	}
	for _, p := range op.Params {
		if p.Required && !bound[p.Name] {
			return fmt.Errorf("resource %q: required parameter %q of %q has no placeholder", spec.URI, p.Name, op.Name)
		}
	}
	if spec.MIMEType == "" {
		spec.MIMEType = "application/json"
	}
	if spec.Params == nil {
		spec.Params = schema.Schema{}
	}
	for _, name := range vars {
		if _, ok := spec.Params[name]; !ok {
			p, _ := op.Param(name)
			spec.Params[name] = p.Type
		}
	}

	e := &entry{
		spec:    spec,
		tmpl:    tmpl,
		op:      op,
		literal: len(expression.ReplaceAllString(spec.URI, "")),
		vars:    len(vars),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.entries {
		if other.spec.URI == spec.URI {
			return fmt.Errorf("resource %q already registered", spec.URI)
		}
	}
	r.entries = append(r.entries, e)
	return nil
}

// Specs returns every registered spec in registration order.
func (r *Resolver) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Spec, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.spec
	}
	return out
}

// Read resolves uri and executes the bound read-only operation.
// It never mutates the document or sketch context.
func (r *Resolver) Read(ctx context.Context, uri string) envelope.Envelope {
	start := time.Now()
	event := domain.ReadEvent{Timestamp: start, URI: uri}

	env := envelope.Capture(func() (any, error) {
		e, values := r.match(uri)
		if e == nil {
			return nil, domain.Errorf(domain.KindUnknownResource, "unknown resource %q", uri)
		}
		event.Template = e.spec.URI

		raw := make(map[string]string, len(values))
		for _, name := range e.tmpl.Varnames() {
			v := values.Get(name).String()
			if v == "" {
				return nil, domain.Errorf(domain.KindInvalidResourceParameter, "placeholder {%s} is empty in %q", name, uri)
			}
			raw[name] = v
		}
		args, err := schema.Coerce(e.spec.Params, raw)
		if err != nil {
			if first := schema.FirstInvalid(err); first != nil {
				return nil, domain.Errorf(domain.KindInvalidResourceParameter, "placeholder {%s}: %s", first.Key, first.Reason)
			}
			return nil, domain.Errorf(domain.KindInvalidResourceParameter, "%v", err)
		}
		return r.exec.Execute(ctx, e.op, args)
	})

	event.Duration = time.Since(start)
	event.Kind = env.Error
	if r.hooks.OnRead != nil {
		r.hooks.OnRead(ctx, &event)
	}
	if env.IsOK() {
		r.logger.Debug("Resource read", "uri", uri, "template", event.Template, "duration", event.Duration)
	} else {
		r.logger.Warn("Resource read failed", "uri", uri, "kind", env.Error, "err", env.Message)
	}
	return env
}

// match picks the most specific template matching uri:
// the most literal characters first, then the fewest placeholders.
func (r *Resolver) match(uri string) (*entry, uritemplate.Values) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *entry
	var bestValues uritemplate.Values
	for _, e := range r.entries {
		values := e.tmpl.Match(uri)
		if values == nil {
			continue
		}
		if best == nil || e.literal > best.literal || (e.literal == best.literal && e.vars < best.vars) {
			best, bestValues = e, values
		}
	}
	return best, bestValues
}
