package observability_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	ok := domain.ResultEvent{InvokeEvent: domain.InvokeEvent{Command: "draw", Variant: "line"}, Duration: 20 * time.Millisecond}
	failed := domain.ResultEvent{InvokeEvent: domain.InvokeEvent{Command: "draw", Variant: "line"}, Kind: domain.KindNoOpenSketch}

	hooks.OnResult(ctx, &ok)
	hooks.OnResult(ctx, &ok)
	hooks.OnResult(ctx, &failed)
	hooks.OnRead(ctx, &domain.ReadEvent{URI: "solidedge://model/features"})
	hooks.OnRead(ctx, &domain.ReadEvent{URI: "solidedge://nope", Kind: domain.KindUnknownResource})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Invocations.WithLabelValues("draw", "line", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues("draw", "line", "NoOpenSketch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reads.WithLabelValues("UnknownResource")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnResult(context.Background(), &domain.ResultEvent{InvokeEvent: domain.InvokeEvent{Command: "create_document", Variant: "part"}})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `edgebridge_invocations_total{command="create_document",status="ok",variant="part"} 1`)
	assert.Contains(t, rec.Body.String(), "edgebridge_invocation_duration_seconds_bucket")
}

func TestLogHooks(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := domain.MultiHooks(observability.LogHooks(logger), observability.NewMetrics().Hooks())

	hooks.OnResult(context.Background(), &domain.ResultEvent{
		InvokeEvent: domain.InvokeEvent{Command: "create_extrude", Variant: "finite", Operation: "extrude.finite"},
		Kind:        domain.KindNoOpenSketch,
	})
	hooks.OnRead(context.Background(), &domain.ReadEvent{URI: "solidedge://sketch/info"})
	hooks.OnInvoke(context.Background(), &domain.InvokeEvent{Command: "draw"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN msg=command_result")
	assert.Contains(t, out, "kind=NoOpenSketch")
	assert.Contains(t, out, "uri=solidedge://sketch/info")
}
