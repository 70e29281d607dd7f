// Package cli assembles a Bridge and its adapters from configuration.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/internal/config"
	"github.com/aretw0/edgebridge/pkg/adapters/file"
	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/adapters/process"
	"github.com/aretw0/edgebridge/pkg/adapters/redis"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/observability"
	"github.com/aretw0/edgebridge/pkg/persistence/middleware"
	"github.com/aretw0/edgebridge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Runtime is a wired Bridge plus the resources it owns.
type Runtime struct {
	Bridge  *edgebridge.Bridge
	Store   ports.SnapshotStore
	Metrics *observability.Metrics

	redis   *backend.Client
	closers []func() error
}

// Build creates the engine, store, locker and hooks selected by cfg.
func Build(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{}

	engine, err := rt.engine(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []edgebridge.Option{
		edgebridge.WithLogger(logger),
		edgebridge.WithSessionID(cfg.Session.ID),
	}

	sys, err := cfg.UnitSystem()
	if err != nil {
		rt.close()
		return nil, err
	}
	opts = append(opts, edgebridge.WithUnits(sys))

	store, err := rt.store(cfg)
	if err != nil {
		rt.close()
		return nil, err
	}
	if store != nil {
		rt.Store = store
		opts = append(opts, edgebridge.WithStore(store))
	}

	if cfg.Lock.Enabled {
		locker := redis.NewLocker(rt.redisClient(cfg), cfg.Store.Redis.Prefix, redis.WithMaxWait(cfg.Lock.MaxWait))
		opts = append(opts, edgebridge.WithLocker(locker, cfg.Lock.TTL))
	}

	hooks := []domain.LifecycleHooks{observability.LogHooks(logger)}
	if cfg.Metrics.Enabled {
		rt.Metrics = observability.NewMetrics()
		hooks = append(hooks, rt.Metrics.Hooks())
	}
	opts = append(opts, edgebridge.WithLifecycleHooks(domain.MultiHooks(hooks...)))

	bridge, err := edgebridge.New(engine, opts...)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("error initializing bridge: %w", err)
	}
	rt.Bridge = bridge
	return rt, nil
}

// NewStore opens the snapshot store selected by cfg, or nil for "none".
func NewStore(cfg config.Config) (ports.SnapshotStore, func() error, error) {
	rt := &Runtime{}
	store, err := rt.store(cfg)
	return store, rt.close, err
}

// Close disconnects the session and releases everything Build opened.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.Bridge != nil {
		errs = append(errs, r.Bridge.Close(ctx))
	}
	errs = append(errs, r.close())
	return errors.Join(errs...)
}

func (r *Runtime) close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.closers = nil
	return errors.Join(errs...)
}

func (r *Runtime) engine(cfg config.Config, logger *slog.Logger) (ports.Engine, error) {
	switch cfg.Engine.Kind {
	case config.EngineSim:
		return memory.NewEngine(memory.WithRunningInstance()), nil
	case config.EngineBridge:
		engine := process.NewEngine(cfg.Engine.Bridge, process.WithLogger(logger))
		r.closers = append(r.closers, func() error {
			engine.Close()
			return nil
		})
		return engine, nil
	default:
		return nil, fmt.Errorf("unknown engine kind %q", cfg.Engine.Kind)
	}
}

func (r *Runtime) store(cfg config.Config) (ports.SnapshotStore, error) {
	store, err := r.backend(cfg)
	if err != nil || store == nil || len(cfg.Store.EncryptionKeys) == 0 {
		return store, err
	}

	keys, err := middleware.ParseKeys(cfg.Store.EncryptionKeys...)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_keys: %w", err)
	}
	seal, err := middleware.NewEncryptionMiddleware(keys)
	if err != nil {
		return nil, err
	}
	return middleware.Chain(store, seal), nil
}

func (r *Runtime) backend(cfg config.Config) (ports.SnapshotStore, error) {
	switch cfg.Store.Kind {
	case config.StoreNone, "":
		return nil, nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreFile:
		return file.New(cfg.Store.Path), nil
	case config.StoreRedis:
		return redis.NewFromClient(r.redisClient(cfg),
			redis.WithPrefix(cfg.Store.Redis.Prefix),
			redis.WithTTL(cfg.Store.Redis.TTL),
		), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

// redisClient returns one client shared by the store and the locker.
func (r *Runtime) redisClient(cfg config.Config) *backend.Client {
	if r.redis == nil {
		r.redis = backend.NewClient(&backend.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		r.closers = append(r.closers, r.redis.Close)
	}
	return r.redis
}
