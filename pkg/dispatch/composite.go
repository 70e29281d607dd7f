package dispatch

import (
	"fmt"

	"github.com/aretw0/edgebridge/pkg/registry"
)

// Variant binds one discriminator value to a registry operation.
type Variant struct {
	Value       string
	Operation   string
	Description string
	// Params lists the operation parameters this variant consumes.
	// Nil means every parameter of the operation.
	Params []string
}

// Composite is one externally visible command.
type Composite struct {
	Name          string
	Description   string
	Discriminator string
	// Default is used when the discriminator is omitted. Empty means none.
	Default  string
	Variants []Variant
}

// Descriptor is the resolved, read-only view of a registered composite,
// used to publish the command surface (MCP tools, OpenAPI, catalogue).
type Descriptor struct {
	Name          string
	Description   string
	Discriminator string
	Default       string
	Variants      []VariantDescriptor
	// Params is the union of every variant's parameters in first-seen order.
	// Required is true only when every variant requires the parameter.
	Params []registry.Param
}

// VariantDescriptor describes one variant of a Descriptor.
type VariantDescriptor struct {
	Value       string
	Operation   string
	Description string
	Effect      registry.Effect
	Scope       registry.Scope
	Params      []registry.Param
}

// Values returns the discriminator values in declaration order.
func (d Descriptor) Values() []string {
	out := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		out[i] = v.Value
	}
	return out
}

type boundVariant struct {
	VariantDescriptor
	op *registry.Operation
}

type compiled struct {
	desc     Descriptor
	variants map[string]*boundVariant
}

// compile validates c against the registry:
// every variant references a registered operation, consumes only parameters
// the operation declares and consumes every parameter the operation requires.
func compile(c Composite, reg *registry.Registry) (*compiled, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("composite has no name")
	}
	if c.Discriminator == "" {
		return nil, fmt.Errorf("composite %q has no discriminator", c.Name)
	}
	if len(c.Variants) == 0 {
		return nil, fmt.Errorf("composite %q has no variants", c.Name)
	}

	out := &compiled{
		desc: Descriptor{
			Name:          c.Name,
			Description:   c.Description,
			Discriminator: c.Discriminator,
			Default:       c.Default,
		},
		variants: make(map[string]*boundVariant, len(c.Variants)),
	}

	union := map[string]int{}
	requiredIn := map[string]int{}

	for _, v := range c.Variants {
		if _, dup := out.variants[v.Value]; dup {
			return nil, fmt.Errorf("composite %q: duplicate variant %q", c.Name, v.Value)
		}
		op, ok := reg.Lookup(v.Operation)
		if !ok {
			return nil, fmt.Errorf("composite %q variant %q: operation %q is not registered", c.Name, v.Value, v.Operation)
		}
		params, err := variantParams(op, v.Params)
		if err != nil {
			return nil, fmt.Errorf("composite %q variant %q: %w", c.Name, v.Value, err)
		}

		desc := v.Description
		if desc == "" {
			desc = op.Description
		}
		bv := &boundVariant{
			VariantDescriptor: VariantDescriptor{
				Value:       v.Value,
				Operation:   op.Name,
				Description: desc,
				Effect:      op.Effect,
				Scope:       op.Scope,
				Params:      params,
			},
			op: op,
		}
		out.variants[v.Value] = bv
		out.desc.Variants = append(out.desc.Variants, bv.VariantDescriptor)

		for _, p := range params {
			if p.Name == c.Discriminator {
				return nil, fmt.Errorf("composite %q variant %q: parameter %q shadows the discriminator", c.Name, v.Value, p.Name)
			}
			if i, seen := union[p.Name]; seen {
				if prev := out.desc.Params[i]; prev.Type.Name() != p.Type.Name() {
					return nil, fmt.Errorf("composite %q: parameter %q is %s in one variant and %s in another",
						c.Name, p.Name, prev.Type.Name(), p.Type.Name())
				}
			} else {
				union[p.Name] = len(out.desc.Params)
				shared := p
				shared.Required = false
				out.desc.Params = append(out.desc.Params, shared)
			}
			if p.Required {
				requiredIn[p.Name]++
			}
		}
	}

	for i, p := range out.desc.Params {
		out.desc.Params[i].Required = requiredIn[p.Name] == len(c.Variants)
	}

	if c.Default != "" {
		if _, ok := out.variants[c.Default]; !ok {
			return nil, fmt.Errorf("composite %q: default variant %q is not declared", c.Name, c.Default)
		}
	}
	return out, nil
}

// variantParams selects the consumed parameters in the operation's declared order.
func variantParams(op *registry.Operation, names []string) ([]registry.Param, error) {
	if names == nil {
		return append([]registry.Param(nil), op.Params...), nil
	}

	want := make(map[string]bool, len(names)+1)
	for _, n := range names {
		if _, ok := op.Param(n); !ok {
			return nil, fmt.Errorf("parameter %q is not declared by operation %q", n, op.Name)
		}
		want[n] = true
	}
	// The explicit document selector travels with every document-scoped variant.
	if _, ok := op.Param(registry.DocumentParam); ok {
		want[registry.DocumentParam] = true
	}

	var out []registry.Param
	for _, p := range op.Params {
		if want[p.Name] {
			out = append(out, p)
			continue
		}
		if p.Required {
			return nil, fmt.Errorf("required parameter %q of operation %q is not consumed", p.Name, op.Name)
		}
	}
	return out, nil
}
