package cli_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/edgebridge/internal/cli"
	"github.com/aretw0/edgebridge/internal/config"
	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/adapters/file"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, cfg config.Config) *cli.Runtime {
	t.Helper()
	rt, err := cli.Build(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func TestBuild_SimWithFileStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Kind = config.StoreFile
	cfg.Store.Path = t.TempDir()
	cfg.Metrics.Enabled = true
	ctx := context.Background()

	rt := build(t, cfg)
	require.NotNil(t, rt.Metrics)

	env := rt.Bridge.Invoke(ctx, "manage_connection", nil)
	require.True(t, env.IsOK(), "%+v", env)
	env = rt.Bridge.Invoke(ctx, "create_document", nil)
	require.True(t, env.IsOK(), "%+v", env)

	ids, err := rt.Store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, ids)

	assert.Equal(t, 1.0, testutil.ToFloat64(rt.Metrics.Invocations.WithLabelValues("create_document", "part", "ok")))
}

func TestBuild_UnitsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Units.Linear = "mm"

	rt := build(t, cfg)
	assert.Equal(t, "mm", string(rt.Bridge.Units().Linear))
	assert.Nil(t, rt.Store)
	assert.Nil(t, rt.Metrics)
}

func TestBuild_RedisStoreAndLock(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Store.Kind = config.StoreRedis
	cfg.Store.Redis.Addr = mr.Addr()
	cfg.Lock.Enabled = true
	cfg.Lock.TTL = time.Minute
	cfg.Lock.MaxWait = 50 * time.Millisecond
	ctx := context.Background()

	first := build(t, cfg)
	env := first.Bridge.Invoke(ctx, "manage_connection", nil)
	require.True(t, env.IsOK(), "%+v", env)
	env = first.Bridge.Invoke(ctx, "create_document", map[string]any{"type": "assembly"})
	require.True(t, env.IsOK(), "%+v", env)

	snap, err := first.Store.Load(ctx, "default")
	require.NoError(t, err)
	assert.True(t, snap.Connected)

	cfg.Session.ID = "other"
	second := build(t, cfg)
	env = second.Bridge.Invoke(ctx, "manage_connection", nil)
	assert.Equal(t, domain.KindEngineUnavailable, env.Error)

	require.NoError(t, first.Close(ctx))
	env = second.Bridge.Invoke(ctx, "manage_connection", nil)
	assert.Equal(t, envelope.StatusOK, env.Status, "%+v", env)
}

func TestBuild_BridgeEngineIsLazy(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Kind = config.EngineBridge
	cfg.Engine.Bridge.Command = "edgebridge-helper-that-does-not-exist"
	ctx := context.Background()

	rt := build(t, cfg)

	status := rt.Bridge.Status(ctx)
	require.True(t, status.IsOK())
	assert.Equal(t, domain.ConnectionStatus{Connected: false}, status.Data)

	env := rt.Bridge.Invoke(ctx, "manage_connection", nil)
	assert.False(t, env.IsOK())
}

func TestNewStore(t *testing.T) {
	cfg := config.Default()
	store, closeFn, err := cli.NewStore(cfg)
	require.NoError(t, err)
	assert.Nil(t, store)
	require.NoError(t, closeFn())

	cfg.Store.Kind = config.StoreMemory
	store, closeFn, err = cli.NewStore(cfg)
	require.NoError(t, err)
	assert.NotNil(t, store)
	require.NoError(t, closeFn())
}

func TestBuild_EncryptedStore(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	cfg := config.Default()
	cfg.Store.Kind = config.StoreFile
	cfg.Store.Path = t.TempDir()
	cfg.Store.EncryptionKeys = []string{key}
	ctx := context.Background()

	rt := build(t, cfg)
	require.True(t, rt.Bridge.Invoke(ctx, "manage_connection", nil).IsOK())

	raw, err := file.New(cfg.Store.Path).Load(ctx, "default")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)

	snap, err := rt.Store.Load(ctx, "default")
	require.NoError(t, err)
	assert.True(t, snap.Connected)
	assert.NotNil(t, snap.App)

	cfg.Store.EncryptionKeys = []string{"not-base64!"}
	_, err = cli.Build(cfg, logging.NewNop())
	assert.Error(t, err)
}
