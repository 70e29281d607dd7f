package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
)

// Dispatcher resolves composite commands to operations.
type Dispatcher struct {
	registry *registry.Registry
	exec     registry.Executor

	mu         sync.RWMutex
	composites map[string]*compiled
	order      []string

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithLogger configures a logger for the Dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithHooks registers lifecycle hooks fired around every invocation.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(d *Dispatcher) {
		d.hooks = hooks
	}
}

// New creates a Dispatcher over reg that executes through exec.
func New(reg *registry.Registry, exec registry.Executor, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:   reg,
		exec:       exec,
		composites: make(map[string]*compiled),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register validates and adds a composite. Composite tables are static,
// so any error here is a configuration error.
func (d *Dispatcher) Register(c Composite) error {
	cc, err := compile(c, d.registry)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.composites[c.Name]; exists {
		return fmt.Errorf("composite %q already registered", c.Name)
	}
	d.composites[c.Name] = cc
	d.order = append(d.order, c.Name)
	return nil
}

// Describe returns the descriptor of a registered composite.
func (d *Dispatcher) Describe(name string) (Descriptor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cc, ok := d.composites[name]
	if !ok {
		return Descriptor{}, false
	}
	return cc.desc, true
}

// Descriptors returns every composite in registration order.
func (d *Dispatcher) Descriptors() []Descriptor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Descriptor, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.composites[name].desc)
	}
	return out
}

// Invoke runs one composite command. The discriminator may be passed
// explicitly or inside params; the default variant is used only when it is
// omitted from both. A present discriminator must be a non-empty string.
// Parameters the selected variant does not consume are ignored.
// Invoke never panics: every outcome is an envelope.
func (d *Dispatcher) Invoke(ctx context.Context, command, discriminator string, params map[string]any) envelope.Envelope {
	return envelope.Capture(func() (any, error) {
		return d.invoke(ctx, command, discriminator, params)
	})
}

func (d *Dispatcher) invoke(ctx context.Context, command, discriminator string, params map[string]any) (any, error) {
	d.mu.RLock()
	cc, ok := d.composites[command]
	d.mu.RUnlock()
	if !ok {
		return nil, domain.Errorf(domain.KindUnknownCommand, "unknown command %q", command)
	}

	if discriminator == "" {
		if raw, present := params[cc.desc.Discriminator]; present && raw != nil {
			value, isString := raw.(string)
			if !isString || value == "" {
				return nil, domain.Errorf(domain.KindUnknownVariant, "invalid %s %v for %s; expected one of %s",
					cc.desc.Discriminator, raw, command, strings.Join(cc.desc.Values(), ", "))
			}
			discriminator = value
		}
	}
	if discriminator == "" {
		discriminator = cc.desc.Default
	}
	if discriminator == "" {
		return nil, domain.Errorf(domain.KindUnknownVariant, "%s requires %q (one of %s)",
			command, cc.desc.Discriminator, strings.Join(cc.desc.Values(), ", "))
	}
	v, ok := cc.variants[discriminator]
	if !ok {
		return nil, domain.Errorf(domain.KindUnknownVariant, "unknown %s %q for %s; expected one of %s",
			cc.desc.Discriminator, discriminator, command, strings.Join(cc.desc.Values(), ", "))
	}

	event := domain.InvokeEvent{
		Timestamp: time.Now(),
		Command:   command,
		Variant:   v.Value,
		Operation: v.Operation,
	}

	args, err := bind(v, params)
	if err != nil {
		d.finish(ctx, event, err)
		return nil, err
	}
	if ignored := unused(v, cc.desc.Discriminator, params); len(ignored) > 0 {
		d.logger.Debug("Ignoring parameters not consumed by variant",
			"command", command, "variant", v.Value, "params", ignored)
	}

	event.Args = args
	d.logger.Debug("Invoking", "command", command, "variant", v.Value, "operation", v.Operation)
	if d.hooks.OnInvoke != nil {
		d.hooks.OnInvoke(ctx, &event)
	}

	data, err := d.exec.Execute(ctx, v.op, args)

	d.finish(ctx, event, err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Dispatcher) finish(ctx context.Context, event domain.InvokeEvent, err error) {
	result := domain.ResultEvent{InvokeEvent: event, Duration: time.Since(event.Timestamp), Kind: domain.KindOf(err)}
	if d.hooks.OnResult != nil {
		d.hooks.OnResult(ctx, &result)
	}
	if err != nil {
		d.logger.Warn("Command failed", "command", event.Command, "variant", event.Variant,
			"operation", event.Operation, "kind", result.Kind, "err", err)
		return
	}
	d.logger.Info("Command succeeded", "command", event.Command, "variant", event.Variant,
		"operation", event.Operation, "duration", result.Duration)
}

// bind extracts exactly the variant's parameters from the bag.
// Required fields are checked in declared order; the first failure names its field.
func bind(v *boundVariant, params map[string]any) (map[string]any, error) {
	s := make(schema.Schema, len(v.Params))
	var required []string
	for _, p := range v.Params {
		s[p.Name] = p.Type
		if p.Required {
			required = append(required, p.Name)
		}
	}
	if first := schema.FirstInvalid(schema.ValidateFields(s, params, required...)); first != nil {
		return nil, missing(first)
	}

	args := make(map[string]any, len(v.Params))
	for _, p := range v.Params {
		value, present := params[p.Name]
		if !present || value == nil {
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}
		if err := p.Type.Validate(value); err != nil {
			return nil, missing(&schema.ValidationError{Key: p.Name, Reason: err.Error(), Value: value})
		}
		args[p.Name] = normalize(p.Type, value)
	}
	return args, nil
}

func missing(ve *schema.ValidationError) error {
	if ve.Missing {
		return domain.Errorf(domain.KindMissingParameter, "missing required parameter %q", ve.Key)
	}
	return domain.Errorf(domain.KindMissingParameter, "parameter %q: %s", ve.Key, ve.Reason)
}

// normalize turns JSON numbers into ints for integer parameters.
func normalize(t schema.Type, v any) any {
	if _, ok := t.(*schema.IntType); ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return v
}

func unused(v *boundVariant, discriminator string, params map[string]any) []string {
	var out []string
	for k := range params {
		if k == discriminator {
			continue
		}
		if consumes(v, k) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func consumes(v *boundVariant, name string) bool {
	for _, p := range v.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}
