package resource_test

import (
	"context"
	"testing"

	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/resource"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	reg   *registry.Registry
	sess  *session.Session
	res   *resource.Resolver
	reads []domain.ReadEvent
	last  map[string]any
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{reg: registry.NewRegistry()}
	f.sess = session.New(memory.NewEngine())
	exec := dispatch.NewExecutor(f.sess)
	f.res = resource.New(f.reg, exec, resource.WithHooks(domain.LifecycleHooks{
		OnRead: func(_ context.Context, e *domain.ReadEvent) { f.reads = append(f.reads, *e) },
	}))

	echo := func(name string) registry.Handler {
		return func(_ context.Context, c *registry.Call) (any, error) {
			f.last = c.Args
			return map[string]any{"op": name, "args": c.Args}, nil
		}
	}
	f.reg.MustRegister(
		registry.Operation{Name: "documents.list", Effect: registry.ReadOnly, Handler: echo("documents.list")},
		registry.Operation{Name: "documents.at", Effect: registry.ReadOnly, Handler: echo("documents.at"),
			Params: []registry.Param{{Name: "index", Type: schema.Int(), Required: true}}},
		registry.Operation{Name: "mass", Effect: registry.ReadOnly, Handler: echo("mass"),
			Params: []registry.Param{{Name: "density", Type: schema.Float(), Required: true}}},
		registry.Operation{Name: "variable", Effect: registry.ReadOnly, Handler: echo("variable"),
			Params: []registry.Param{{Name: "name", Type: schema.String(), Required: true}}},
		registry.Operation{Name: "document.create", Effect: registry.Mutating, Handler: echo("document.create")},
	)

	for _, spec := range []resource.Spec{
		{URI: "solidedge://document/list", Name: "Open documents", Operation: "documents.list"},
		{URI: "solidedge://document/{index}", Name: "Document by index", Operation: "documents.at"},
		{URI: "solidedge://geometry/mass-properties/{density}", Name: "Mass properties", Operation: "mass"},
		{URI: "solidedge://model/variable/{name}", Name: "Variable", Operation: "variable"},
	} {
		require.NoError(t, f.res.Register(spec))
	}
	return f
}

func TestRead_StaticWinsOverTemplate(t *testing.T) {
	f := newFixture(t)

	env := f.res.Read(context.Background(), "solidedge://document/list")
	require.True(t, env.IsOK(), "%+v", env)
	assert.Equal(t, "documents.list", env.Data.(map[string]any)["op"])
	require.Len(t, f.reads, 1)
	assert.Equal(t, "solidedge://document/list", f.reads[0].Template)
}

func TestRead_TemplateCoercion(t *testing.T) {
	f := newFixture(t)

	env := f.res.Read(context.Background(), "solidedge://document/2")
	require.True(t, env.IsOK(), "%+v", env)
	assert.Equal(t, 2, f.last["index"])

	env = f.res.Read(context.Background(), "solidedge://geometry/mass-properties/7850.5")
	require.True(t, env.IsOK(), "%+v", env)
	assert.Equal(t, 7850.5, f.last["density"])

	env = f.res.Read(context.Background(), "solidedge://model/variable/Width%20A")
	require.True(t, env.IsOK(), "%+v", env)
	assert.Equal(t, "Width A", f.last["name"])
}

func TestRead_InvalidParameter(t *testing.T) {
	f := newFixture(t)

	env := f.res.Read(context.Background(), "solidedge://geometry/mass-properties/steel")
	assert.Equal(t, domain.KindInvalidResourceParameter, env.Error)
	assert.Contains(t, env.Message, "density")

	env = f.res.Read(context.Background(), "solidedge://document/first")
	assert.Equal(t, domain.KindInvalidResourceParameter, env.Error)
	assert.Equal(t, domain.KindInvalidResourceParameter, f.reads[len(f.reads)-1].Kind)
}

func TestRead_UnknownResource(t *testing.T) {
	f := newFixture(t)

	for _, uri := range []string{
		"solidedge://model/nothing",
		"file:///etc/passwd",
		"solidedge://document/1/extra",
	} {
		env := f.res.Read(context.Background(), uri)
		assert.Equal(t, domain.KindUnknownResource, env.Error, uri)
	}
}

func TestRegister_RejectsMutatingOperation(t *testing.T) {
	f := newFixture(t)

	err := f.res.Register(resource.Spec{URI: "solidedge://document/new", Operation: "document.create"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		spec resource.Spec
	}{
		{"unknown operation", resource.Spec{URI: "solidedge://x", Operation: "nope"}},
		{"bad template", resource.Spec{URI: "solidedge://x/{", Operation: "documents.list"}},
		{"unbound placeholder", resource.Spec{URI: "solidedge://x/{other}", Operation: "documents.at"}},
		{"required without placeholder", resource.Spec{URI: "solidedge://x", Operation: "documents.at"}},
		{"type mismatch", resource.Spec{URI: "solidedge://y/{index}", Operation: "documents.at", Params: schema.Schema{"index": schema.String()}}},
		{"duplicate", resource.Spec{URI: "solidedge://document/list", Operation: "documents.list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, f.res.Register(tt.spec))
		})
	}
}

func TestSpecs_DefaultsAndOrder(t *testing.T) {
	f := newFixture(t)

	specs := f.res.Specs()
	require.Len(t, specs, 4)
	assert.Equal(t, "solidedge://document/list", specs[0].URI)
	assert.False(t, specs[0].Templated())
	assert.True(t, specs[1].Templated())
	assert.Equal(t, "application/json", specs[1].MIMEType)
	assert.Equal(t, "int", specs[1].Params["index"].Name())
}

func TestRead_NeverMutatesSession(t *testing.T) {
	reg := registry.NewRegistry()
	engine := memory.NewEngine()
	sess := session.New(engine)
	res := resource.New(reg, dispatch.NewExecutor(sess))
	ctx := context.Background()

	reg.MustRegister(registry.Operation{
		Name:   "active.name",
		Effect: registry.ReadOnly,
		Scope:  registry.ScopeDocument,
		Handler: func(_ context.Context, c *registry.Call) (any, error) {
			return map[string]any{"name": c.Document.Name, "sketch": string(c.Sketch.State)}, nil
		},
	})
	require.NoError(t, res.Register(resource.Spec{URI: "solidedge://document/active", Operation: "active.name"}))

	_, err := sess.Connect(ctx, true)
	require.NoError(t, err)
	doc, err := sess.CreateDocument(ctx, domain.DocumentPart, "")
	require.NoError(t, err)

	before := sess.Snapshot()
	first := res.Read(ctx, "solidedge://document/active")
	second := res.Read(ctx, "solidedge://document/active")
	require.True(t, first.IsOK(), "%+v", first)
	assert.Equal(t, first.Data, second.Data)

	after := sess.Snapshot()
	assert.Equal(t, before.Documents, after.Documents)
	assert.Equal(t, before.Active, after.Active)
	assert.Equal(t, before.Sketches, after.Sketches)

	// A stale active document is reported but not pruned by a read.
	engine.CloseExternally(doc.Ref)
	env := res.Read(ctx, "solidedge://document/active")
	assert.Equal(t, domain.KindNoActiveDocument, env.Error)
	active, ok := sess.Active()
	assert.True(t, ok)
	assert.Equal(t, doc.ID, active.ID)
}
