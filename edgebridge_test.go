package edgebridge_test

import (
	"context"
	"testing"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/pkg/adapters/file"
	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/observability"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/units"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustOK(t *testing.T, env envelope.Envelope) envelope.Envelope {
	t.Helper()
	require.True(t, env.IsOK(), "%+v", env)
	return env
}

func TestBridge_SquareExtrudeEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := file.New(t.TempDir())
	metrics := observability.NewMetrics()

	bridge, err := edgebridge.New(memory.NewEngine(),
		edgebridge.WithStore(store),
		edgebridge.WithSessionID("e2e"),
		edgebridge.WithLifecycleHooks(metrics.Hooks()),
	)
	require.NoError(t, err)

	mustOK(t, bridge.Invoke(ctx, "manage_connection", map[string]any{"action": "connect", "start_if_needed": true}))
	mustOK(t, bridge.Invoke(ctx, "create_document", map[string]any{"type": "part"}))
	mustOK(t, bridge.Invoke(ctx, "manage_sketch", map[string]any{"action": "open", "plane": "Top"}))
	for _, seg := range [][4]float64{{0, 0, 0.1, 0}, {0.1, 0, 0.1, 0.1}, {0.1, 0.1, 0, 0.1}, {0, 0.1, 0, 0}} {
		mustOK(t, bridge.Invoke(ctx, "draw", map[string]any{"shape": "line", "x1": seg[0], "y1": seg[1], "x2": seg[2], "y2": seg[3]}))
	}
	mustOK(t, bridge.Invoke(ctx, "manage_sketch", map[string]any{"action": "close"}))

	env := mustOK(t, bridge.Invoke(ctx, "create_extrude", map[string]any{"method": "finite", "distance": 0.05}))
	assert.Equal(t, envelope.StatusOK, env.Status)
	assert.NotEmpty(t, env.Data.(map[string]any)["ref"])

	features := mustOK(t, bridge.Read(ctx, "solidedge://model/features")).Data.(map[string]any)
	assert.Equal(t, 1, features["count"])

	snap, err := store.Load(ctx, "e2e")
	require.NoError(t, err)
	assert.True(t, snap.Connected)
	require.Len(t, snap.Documents, 1)
	assert.Equal(t, domain.SketchClosed, snap.Sketches[snap.Active].State)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Invocations.WithLabelValues("create_extrude", "finite", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Reads.WithLabelValues("ok")))
}

func TestBridge_FeatureWithoutSketchNeverCallsEngine(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine()
	bridge, err := edgebridge.New(engine)
	require.NoError(t, err)

	mustOK(t, bridge.Invoke(ctx, "manage_connection", nil))
	mustOK(t, bridge.Invoke(ctx, "create_document", nil))
	before := len(engine.Calls())

	env := bridge.Invoke(ctx, "create_extrude", map[string]any{"distance": 0.05})
	assert.Equal(t, domain.KindNoOpenSketch, env.Error)
	assert.Len(t, engine.Calls(), before)
}

func TestBridge_ActivationRoundTrip(t *testing.T) {
	ctx := context.Background()
	bridge, err := edgebridge.New(memory.NewEngine())
	require.NoError(t, err)

	mustOK(t, bridge.Invoke(ctx, "manage_connection", nil))
	a := mustOK(t, bridge.Invoke(ctx, "create_document", nil)).Data.(domain.DocumentHandle)
	b := mustOK(t, bridge.Invoke(ctx, "create_document", nil)).Data.(domain.DocumentHandle)

	mustOK(t, bridge.Invoke(ctx, "activate_document", map[string]any{"handle": b.ID}))
	mustOK(t, bridge.Invoke(ctx, "activate_document", map[string]any{"handle": a.ID}))

	active := mustOK(t, bridge.Read(ctx, "solidedge://document/active")).Data.(map[string]any)
	assert.Equal(t, a.ID, active["document"].(domain.DocumentHandle).ID)
}

func TestBridge_FailuresAreEnvelopes(t *testing.T) {
	ctx := context.Background()
	bridge, err := edgebridge.New(memory.NewEngine())
	require.NoError(t, err)

	assert.Equal(t, domain.KindNotConnected, bridge.Invoke(ctx, "create_document", nil).Error)
	assert.Equal(t, domain.KindUnknownCommand, bridge.Invoke(ctx, "fly", nil).Error)
	assert.Equal(t, domain.KindUnknownVariant, bridge.InvokeVariant(ctx, "draw", "spline", nil).Error)
	assert.Equal(t, domain.KindUnknownResource, bridge.Read(ctx, "solidedge://nowhere").Error)

	status := mustOK(t, bridge.Status(ctx)).Data.(domain.ConnectionStatus)
	assert.False(t, status.Connected)

	env := bridge.Invoke(ctx, "manage_connection", map[string]any{"start_if_needed": false})
	assert.Equal(t, domain.KindEngineUnavailable, env.Error)
}

func TestBridge_CallerUnits(t *testing.T) {
	ctx := context.Background()
	sys, err := units.Parse("mm", "deg")
	require.NoError(t, err)
	engine := memory.NewEngine()
	bridge, err := edgebridge.New(engine, edgebridge.WithUnits(sys))
	require.NoError(t, err)
	assert.Equal(t, sys, bridge.Units())

	mustOK(t, bridge.Invoke(ctx, "manage_connection", nil))
	mustOK(t, bridge.Invoke(ctx, "create_document", nil))
	mustOK(t, bridge.Invoke(ctx, "manage_sketch", nil))
	mustOK(t, bridge.Invoke(ctx, "draw", map[string]any{"shape": "circle", "center_x": 0.0, "center_y": 0.0, "radius": 25.0}))

	calls := engine.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, ports.MethodCirclesAdd, last.Method)
	assert.InDelta(t, 0.025, last.Args[2], 1e-12)
}

func TestBridge_Surface(t *testing.T) {
	bridge, err := edgebridge.New(memory.NewEngine())
	require.NoError(t, err)

	assert.Len(t, bridge.Commands(), 14)
	assert.Len(t, bridge.Resources(), 16)
	assert.NotEmpty(t, bridge.Session().ID())
	require.NoError(t, bridge.Close(context.Background()))

	_, err = edgebridge.New(nil)
	assert.Error(t, err)
}
