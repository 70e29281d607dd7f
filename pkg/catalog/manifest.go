package catalog

import (
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/resource"
	"github.com/aretw0/edgebridge/pkg/units"
)

// Manifest is the serialisable description of the published surface.
type Manifest struct {
	Units     ManifestUnits   `json:"units"`
	Commands  []CommandEntry  `json:"commands"`
	Resources []ResourceEntry `json:"resources"`
}

type ManifestUnits struct {
	Linear  string `json:"linear"`
	Angular string `json:"angular"`
}

type CommandEntry struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Discriminator string         `json:"discriminator"`
	Default       string         `json:"default"`
	Variants      []VariantEntry `json:"variants"`
}

type VariantEntry struct {
	Value       string       `json:"value"`
	Operation   string       `json:"operation"`
	Description string       `json:"description,omitempty"`
	Effect      string       `json:"effect"`
	Scope       string       `json:"scope"`
	Params      []ParamEntry `json:"params,omitempty"`
}

type ParamEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
}

type ResourceEntry struct {
	URI         string            `json:"uri"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	MIMEType    string            `json:"mime_type"`
	Templated   bool              `json:"templated"`
	Params      map[string]string `json:"params,omitempty"`
}

// Describe builds the manifest for the given commands and resources.
// Units label geometric parameters in the caller's unit system.
func Describe(commands []dispatch.Descriptor, specs []resource.Spec, sys units.System) Manifest {
	m := Manifest{
		Units:     ManifestUnits{Linear: string(sys.Linear), Angular: string(sys.Angular)},
		Commands:  make([]CommandEntry, 0, len(commands)),
		Resources: make([]ResourceEntry, 0, len(specs)),
	}
	for _, d := range commands {
		c := CommandEntry{
			Name:          d.Name,
			Description:   d.Description,
			Discriminator: d.Discriminator,
			Default:       d.Default,
		}
		for _, v := range d.Variants {
			ve := VariantEntry{
				Value:       v.Value,
				Operation:   v.Operation,
				Description: v.Description,
				Effect:      v.Effect.String(),
				Scope:       v.Scope.String(),
			}
			for _, p := range v.Params {
				ve.Params = append(ve.Params, paramEntry(p, sys))
			}
			c.Variants = append(c.Variants, ve)
		}
		m.Commands = append(m.Commands, c)
	}
	for _, s := range specs {
		r := ResourceEntry{
			URI:         s.URI,
			Name:        s.Name,
			Description: s.Description,
			MIMEType:    s.MIMEType,
			Templated:   s.Templated(),
		}
		if len(s.Params) > 0 {
			r.Params = make(map[string]string, len(s.Params))
			for name, t := range s.Params {
				r.Params[name] = t.Name()
			}
		}
		m.Resources = append(m.Resources, r)
	}
	return m
}

func paramEntry(p registry.Param, sys units.System) ParamEntry {
	return ParamEntry{
		Name:        p.Name,
		Type:        p.Type.Name(),
		Required:    p.Required,
		Default:     p.Default,
		Unit:        sys.Label(p.Quantity),
		Description: p.Description,
	}
}
