package http

import (
	"net/http"
	"strings"

	"github.com/aretw0/edgebridge"
	"github.com/aretw0/edgebridge/pkg/dispatch"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

const envelopeRef = "#/components/schemas/Envelope"

// OpenAPI describes the HTTP surface, with one path per composite command.
func OpenAPI(commands []dispatch.Descriptor) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "edgebridge",
			Description: "Composite commands and read-only resources over a CAD engine session.",
			Version:     strings.TrimSpace(edgebridge.Version),
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Envelope": openapi3.NewSchemaRef("", envelopeSchema()),
			},
		},
	}

	for _, c := range commands {
		op := openapi3.NewOperation()
		op.OperationID = c.Name
		op.Summary = c.Description
		op.Tags = []string{"commands"}
		op.AddParameter(openapi3.NewQueryParameter("variant").
			WithDescription("Overrides the " + c.Discriminator + " key of the body.").
			WithSchema(enumSchema(c.Values())))
		op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithJSONSchema(commandSchema(c))}
		op.Responses = envelopeResponses()
		doc.Paths.Set("/commands/"+c.Name, &openapi3.PathItem{Post: op})
	}

	read := openapi3.NewOperation()
	read.OperationID = "read_resource"
	read.Summary = "Read a resource by URI."
	read.Tags = []string{"resources"}
	read.AddParameter(openapi3.NewQueryParameter("uri").WithRequired(true).WithSchema(openapi3.NewStringSchema()))
	read.Responses = envelopeResponses()
	doc.Paths.Set("/resources", &openapi3.PathItem{Get: read})

	status := openapi3.NewOperation()
	status.OperationID = "connection_status"
	status.Summary = "Probe the engine connection."
	status.Responses = envelopeResponses()
	doc.Paths.Set("/status", &openapi3.PathItem{Get: status})

	for path, id := range map[string]string{"/healthz": "health", "/catalog": "catalog"} {
		op := openapi3.NewOperation()
		op.OperationID = id
		op.Responses = openapi3.NewResponses(openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("OK").WithJSONSchema(openapi3.NewObjectSchema().WithAnyAdditionalProperties()),
		}))
		doc.Paths.Set(path, &openapi3.PathItem{Get: op})
	}
	return doc
}

func envelopeSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("ok")).
		WithProperty("data", &openapi3.Schema{}).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("detail", openapi3.NewStringSchema())
}

func envelopeResponses() *openapi3.Responses {
	ref := &openapi3.SchemaRef{Ref: envelopeRef}
	ok := openapi3.NewResponse().WithDescription("Success envelope.").WithJSONSchemaRef(ref)
	fail := openapi3.NewResponse().WithDescription("Failure envelope; branch on the error kind.").WithJSONSchemaRef(ref)
	return openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: ok}),
		openapi3.WithName("default", fail),
	)
}

func commandSchema(c dispatch.Descriptor) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.Description = c.Description
	disc := enumSchema(c.Values())
	disc.Default = c.Default
	s.WithProperty(c.Discriminator, disc)
	for _, p := range c.Params {
		s.WithProperty(p.Name, paramSchema(p))
	}
	return s
}

func paramSchema(p registry.Param) *openapi3.Schema {
	var s *openapi3.Schema
	switch t := p.Type.(type) {
	case *schema.EnumType:
		s = enumSchema(t.Values())
	case *schema.IntType:
		s = openapi3.NewIntegerSchema()
	case *schema.FloatType:
		s = openapi3.NewFloat64Schema()
	case *schema.BoolType:
		s = openapi3.NewBoolSchema()
	case *schema.SliceType:
		s = openapi3.NewArraySchema().WithItems(paramSchema(registry.Param{Type: t.Elem()}))
	default:
		s = openapi3.NewStringSchema()
	}
	s.Description = p.Description
	if p.Default != nil {
		s.Default = p.Default
	}
	return s
}

func enumSchema(values []string) *openapi3.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return openapi3.NewStringSchema().WithEnum(enum...)
}
