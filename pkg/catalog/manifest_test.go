package catalog_test

import (
	"testing"

	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/aretw0/edgebridge/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	sys, err := units.Parse("mm", "deg")
	require.NoError(t, err)
	h := newHarness(t, sys)

	m := catalog.Describe(h.cmds.Descriptors(), h.res.Specs(), sys)
	assert.Equal(t, "mm", m.Units.Linear)
	require.Len(t, m.Commands, len(catalog.Composites()))
	require.Len(t, m.Resources, len(catalog.Resources()))

	var arc *catalog.VariantEntry
	for i, c := range m.Commands {
		if c.Name != "draw" {
			continue
		}
		assert.Equal(t, "shape", c.Discriminator)
		assert.Equal(t, "line", c.Default)
		for j := range c.Variants {
			if c.Variants[j].Value == "arc" {
				arc = &m.Commands[i].Variants[j]
			}
		}
	}
	require.NotNil(t, arc)
	assert.Equal(t, "draw.arc", arc.Operation)
	assert.Equal(t, "mutating", arc.Effect)
	assert.Equal(t, "open-sketch", arc.Scope)

	labels := map[string]string{}
	for _, p := range arc.Params {
		labels[p.Name] = p.Unit
	}
	assert.Equal(t, "mm", labels["radius"])
	assert.Equal(t, "deg", labels["start_angle"])

	var mass *catalog.ResourceEntry
	for i := range m.Resources {
		if m.Resources[i].URI == "solidedge://geometry/mass-properties/{density}" {
			mass = &m.Resources[i]
		}
	}
	require.NotNil(t, mass)
	assert.True(t, mass.Templated)
	assert.Equal(t, "float", mass.Params["density"])
}
