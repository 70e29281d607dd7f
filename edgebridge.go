package edgebridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/resource"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/aretw0/edgebridge/pkg/units"
)

// Bridge is the high-level entry point for the library.
// It owns one session against one engine and exposes the composite
// commands and resources built on top of it.
type Bridge struct {
	session    *session.Session
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	resolver   *resource.Resolver

	units       units.System
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	sessionOpts []session.Option
}

// Option defines a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bridge) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the bridge.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithUnits sets the caller units for lengths and angles.
func WithUnits(sys units.System) Option {
	return func(b *Bridge) {
		b.units = sys
	}
}

// WithStore persists a session snapshot after every mutating command.
func WithStore(store ports.SnapshotStore) Option {
	return func(b *Bridge) {
		b.sessionOpts = append(b.sessionOpts, session.WithStore(store))
	}
}

// WithLocker guards the engine instance against other bridge processes.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(b *Bridge) {
		b.sessionOpts = append(b.sessionOpts, session.WithLocker(locker, ttl))
	}
}

// WithSessionID fixes the session identifier used for snapshots.
func WithSessionID(id string) Option {
	return func(b *Bridge) {
		b.sessionOpts = append(b.sessionOpts, session.WithID(id))
	}
}

// New wires a bridge around engine. The engine is not contacted until
// the first connect command.
func New(engine ports.Engine, opts ...Option) (*Bridge, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	b := &Bridge{
		units:  units.Default(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.session = session.New(engine, append([]session.Option{session.WithLogger(b.logger)}, b.sessionOpts...)...)
	b.logger = b.logger.With("session", b.session.ID())

	b.registry = registry.NewRegistry()
	exec := dispatch.NewExecutor(b.session,
		dispatch.WithUnits(b.units),
		dispatch.WithExecutorLogger(b.logger),
	)
	b.dispatcher = dispatch.New(b.registry, exec,
		dispatch.WithLogger(b.logger),
		dispatch.WithHooks(b.hooks),
	)
	b.resolver = resource.New(b.registry, exec,
		resource.WithLogger(b.logger),
		resource.WithHooks(b.hooks),
	)

	if err := catalog.Install(b.session, b.registry, b.dispatcher, b.resolver); err != nil {
		return nil, err
	}
	return b, nil
}

// Invoke runs a composite command. The discriminator travels inside params.
func (b *Bridge) Invoke(ctx context.Context, command string, params map[string]any) envelope.Envelope {
	return b.dispatcher.Invoke(ctx, command, "", params)
}

// InvokeVariant runs a composite command with an explicit discriminator value.
func (b *Bridge) InvokeVariant(ctx context.Context, command, variant string, params map[string]any) envelope.Envelope {
	return b.dispatcher.Invoke(ctx, command, variant, params)
}

// Read resolves a resource URI.
func (b *Bridge) Read(ctx context.Context, uri string) envelope.Envelope {
	return b.resolver.Read(ctx, uri)
}

// Status probes the engine connection. It never fails.
func (b *Bridge) Status(ctx context.Context) envelope.Envelope {
	return envelope.OK(b.session.Status(ctx))
}

// Commands describes every composite command in registration order.
func (b *Bridge) Commands() []dispatch.Descriptor {
	return b.dispatcher.Descriptors()
}

// Resources lists every resource and resource template.
func (b *Bridge) Resources() []resource.Spec {
	return b.resolver.Specs()
}

// Units returns the caller unit system.
func (b *Bridge) Units() units.System {
	return b.units
}

// Session exposes the underlying session context.
func (b *Bridge) Session() *session.Session {
	return b.session
}

// Close releases the engine without asking it to exit.
func (b *Bridge) Close(ctx context.Context) error {
	return b.session.Disconnect(ctx)
}
