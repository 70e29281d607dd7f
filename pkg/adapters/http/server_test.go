package http_test

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/pkg/adapters/http"
	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/envelope"
	"github.com/aretw0/edgebridge/pkg/observability"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	metrics := observability.NewMetrics()
	bridge, err := edgebridge.New(memory.NewEngine(), edgebridge.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)

	srv := httptest.NewServer(http.NewHandler(bridge, http.WithMetrics(metrics.Handler())))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (int, envelope.Envelope) {
	t.Helper()
	resp, err := nethttp.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := nethttp.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestServer_CommandsAndResources(t *testing.T) {
	srv := newServer(t)

	code, env := post(t, srv, "/commands/manage_connection", `{"action":"connect"}`)
	require.Equal(t, nethttp.StatusOK, code, "%+v", env)

	code, env = post(t, srv, "/commands/create_document?variant=part", "")
	require.Equal(t, nethttp.StatusOK, code, "%+v", env)
	assert.Equal(t, envelope.StatusOK, env.Status)

	var count envelope.Envelope
	code = get(t, srv, "/resources?uri="+url.QueryEscape("solidedge://document/count"), &count)
	assert.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, map[string]any{"count": float64(1)}, count.Data)

	var status envelope.Envelope
	get(t, srv, "/status", &status)
	assert.Equal(t, true, status.Data.(map[string]any)["connected"])
}

func TestServer_FailureStatusCodes(t *testing.T) {
	srv := newServer(t)

	code, env := post(t, srv, "/commands/create_document", `{}`)
	assert.Equal(t, nethttp.StatusConflict, code)
	assert.Equal(t, domain.KindNotConnected, env.Error)

	code, env = post(t, srv, "/commands/teleport", `{}`)
	assert.Equal(t, nethttp.StatusNotFound, code)
	assert.Equal(t, domain.KindUnknownCommand, env.Error)

	code, env = post(t, srv, "/commands/draw", `{"shape":"spline"}`)
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, domain.KindUnknownVariant, env.Error)

	code, env = post(t, srv, "/commands/draw", `[1,2]`)
	assert.Equal(t, nethttp.StatusBadRequest, code)
	assert.Equal(t, domain.KindMissingParameter, env.Error)

	var missing envelope.Envelope
	assert.Equal(t, nethttp.StatusBadRequest, get(t, srv, "/resources", &missing))
	assert.Equal(t, domain.KindMissingParameter, missing.Error)

	var unknown envelope.Envelope
	assert.Equal(t, nethttp.StatusNotFound, get(t, srv, "/resources?uri="+url.QueryEscape("solidedge://nowhere"), &unknown))
	assert.Equal(t, domain.KindUnknownResource, unknown.Error)
}

func TestServer_Catalog(t *testing.T) {
	srv := newServer(t)

	var m catalog.Manifest
	require.Equal(t, nethttp.StatusOK, get(t, srv, "/catalog", &m))
	assert.Len(t, m.Commands, len(catalog.Composites()))
	assert.Len(t, m.Resources, len(catalog.Resources()))
	assert.Equal(t, "m", m.Units.Linear)
}

func TestServer_OpenAPIIsValid(t *testing.T) {
	srv := newServer(t)

	resp, err := nethttp.Get(srv.URL + "/openapi.json")
	require.NoError(t, err)
	defer resp.Body.Close()

	doc, err := openapi3.NewLoader().LoadFromIoReader(resp.Body)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	item := doc.Paths.Value("/commands/create_extrude")
	require.NotNil(t, item)
	require.NotNil(t, item.Post)
	body := item.Post.RequestBody.Value.Content.Get("application/json").Schema.Value
	assert.Equal(t, "finite", body.Properties["method"].Value.Default)
	assert.Contains(t, body.Properties, "distance")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	var health map[string]string
	require.Equal(t, nethttp.StatusOK, get(t, srv, "/healthz", &health))
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, health["version"])

	post(t, srv, "/commands/manage_connection", `{}`)

	resp, err := nethttp.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `edgebridge_invocations_total{command="manage_connection",status="ok",variant="connect"} 1`)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, nethttp.StatusOK, http.StatusCode(envelope.OK(nil)))
	assert.Equal(t, nethttp.StatusServiceUnavailable, http.StatusCode(envelope.Fail(domain.NewError(domain.KindLaunchFailed, "no"))))
	assert.Equal(t, nethttp.StatusUnprocessableEntity, http.StatusCode(envelope.Fail(domain.NewError(domain.KindOperationFailed, "no"))))
}
