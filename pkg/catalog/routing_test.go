package catalog_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counted wraps every catalogue operation in a stub that records how often
// it ran. Scopes are dropped so routing is checked without engine state.
type counted struct {
	disp  *dispatch.Dispatcher
	calls map[string]*atomic.Int32
}

func newCounted(t *testing.T) *counted {
	t.Helper()
	sess := session.New(memory.NewEngine())
	reg := registry.NewRegistry()
	c := &counted{calls: map[string]*atomic.Int32{}}

	for _, op := range catalog.Operations(sess) {
		n := &atomic.Int32{}
		c.calls[op.Name] = n
		op.Scope = registry.ScopeNone
		op.Returns = nil
		op.Handler = func(context.Context, *registry.Call) (any, error) {
			n.Add(1)
			return nil, nil
		}
		require.NoError(t, reg.Register(op))
	}

	c.disp = dispatch.New(reg, dispatch.NewExecutor(sess))
	for _, comp := range catalog.Composites() {
		require.NoError(t, c.disp.Register(comp))
	}
	return c
}

func (c *counted) total() int {
	n := 0
	for _, calls := range c.calls {
		n += int(calls.Load())
	}
	return n
}

// sample returns a well-typed value as it arrives from decoded JSON.
func sample(t schema.Type) any {
	switch typ := t.(type) {
	case *schema.EnumType:
		return typ.Values()[0]
	case *schema.SliceType:
		return []any{sample(typ.Elem()), sample(typ.Elem()), sample(typ.Elem()), sample(typ.Elem())}
	case *schema.IntType:
		return 3.0
	case *schema.FloatType:
		return 0.01
	case *schema.BoolType:
		return true
	default:
		return "Part1"
	}
}

func TestComposites_EveryVariantRoutesToItsOperation(t *testing.T) {
	c := newCounted(t)

	for _, comp := range catalog.Composites() {
		desc, ok := c.disp.Describe(comp.Name)
		require.True(t, ok, comp.Name)

		for _, v := range desc.Variants {
			t.Run(fmt.Sprintf("%s/%s", comp.Name, v.Value), func(t *testing.T) {
				bag := map[string]any{}
				var required []string
				for _, p := range v.Params {
					if p.Required {
						bag[p.Name] = sample(p.Type)
						required = append(required, p.Name)
					}
				}

				before := c.total()
				own := c.calls[v.Operation].Load()
				env := c.disp.Invoke(context.Background(), comp.Name, v.Value, bag)
				require.True(t, env.IsOK(), "%+v", env)
				assert.Equal(t, own+1, c.calls[v.Operation].Load())
				assert.Equal(t, before+1, c.total())

				for _, name := range required {
					partial := make(map[string]any, len(bag))
					for k, val := range bag {
						if k != name {
							partial[k] = val
						}
					}
					env := c.disp.Invoke(context.Background(), comp.Name, v.Value, partial)
					assert.Equal(t, domain.KindMissingParameter, env.Error, name)
					assert.Contains(t, env.Message, fmt.Sprintf("%q", name))
				}
				assert.Equal(t, before+1, c.total())
			})
		}
	}
}

func TestComposites_DefaultVariantOnlyWhenOmitted(t *testing.T) {
	c := newCounted(t)

	for _, comp := range catalog.Composites() {
		if comp.Default == "" {
			continue
		}
		t.Run(comp.Name, func(t *testing.T) {
			before := c.total()
			env := c.disp.Invoke(context.Background(), comp.Name, "", map[string]any{comp.Discriminator: 7.0})
			assert.Equal(t, domain.KindUnknownVariant, env.Error)
			assert.Equal(t, before, c.total())
		})
	}
}
