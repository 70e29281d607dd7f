package catalog

import (
	"context"
	"strconv"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/registry"
	"github.com/aretw0/edgebridge/pkg/schema"
)

func (b *bindings) documents() []registry.Operation {
	ops := make([]registry.Operation, 0, len(domain.DocumentKinds)+12)
	for _, kind := range domain.DocumentKinds {
		ops = append(ops, b.createDocument(kind))
	}

	save := optional("save", schema.Bool(), true, "Save before closing.")
	return append(ops,
		b.openDocument("document.open", false),
		b.openDocument("document.open_background", true),
		registry.Operation{
			Name:        "document.close",
			Description: "Close the target document. Closing the active document leaves no active document.",
			Params:      []registry.Param{save},
			Effect:      registry.Mutating,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				h, err := b.sess.Close(ctx, c.Document.ID, c.Bool("save"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"closed": h}, nil
			},
		},
		registry.Operation{
			Name:        "document.close_by_handle",
			Description: "Close a tracked document by handle id, name or index.",
			Params: []registry.Param{
				required("handle", schema.String(), "Handle id, document name or index."),
				save,
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeApplication,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				h, err := b.sess.Close(ctx, c.String("handle"), c.Bool("save"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"closed": h}, nil
			},
		},
		registry.Operation{
			Name:        "document.close_all",
			Description: "Close every tracked document.",
			Params:      []registry.Param{save},
			Effect:      registry.Mutating,
			Scope:       registry.ScopeApplication,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				n, err := b.sess.CloseAll(ctx, c.Bool("save"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"closed": n}, nil
			},
		},
		registry.Operation{
			Name:        "document.save",
			Description: "Save the document, to file_path when given.",
			Params: []registry.Param{
				optional("file_path", schema.String(), nil, "Target path. Required for a document never saved."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				path := c.String("file_path")
				if path == "" {
					return b.call(ctx, c.Document.Ref, ports.MethodDocumentSave)
				}
				res, err := b.call(ctx, c.Document.Ref, ports.MethodDocumentSaveAs, path)
				if err != nil {
					return nil, err
				}
				b.sess.SetPath(c.Document.ID, path)
				return res, nil
			},
		},
		registry.Operation{
			Name:        "document.save_copy",
			Description: "Save a copy without changing the document's own path.",
			Params: []registry.Param{
				required("file_path", schema.String(), "Path of the copy."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.call(ctx, c.Document.Ref, ports.MethodDocumentSaveCopyAs, c.String("file_path"))
			},
		},
		registry.Operation{
			Name:        "document.activate",
			Description: "Make a tracked document active by handle id or name.",
			Params: []registry.Param{
				required("handle", schema.String(), "Handle id or document name."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeApplication,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.sess.Activate(ctx, c.String("handle"))
			},
		},
		registry.Operation{
			Name:        "document.activate_index",
			Description: "Make a tracked document active by its 0-based position.",
			Params: []registry.Param{
				required("index", schema.Int(), "0-based position in the open document list."),
			},
			Effect: registry.Mutating,
			Scope:  registry.ScopeApplication,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.sess.Activate(ctx, strconv.Itoa(c.Int("index")))
			},
		},
		registry.Operation{
			Name:        "document.undo",
			Description: "Undo the last model change.",
			Effect:      registry.Mutating,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.call(ctx, c.Document.Ref, ports.MethodDocumentUndo)
			},
		},
		registry.Operation{
			Name:        "document.redo",
			Description: "Redo the last undone model change.",
			Effect:      registry.Mutating,
			Scope:       registry.ScopeDocument,
			Handler: func(ctx context.Context, c *registry.Call) (any, error) {
				return b.call(ctx, c.Document.Ref, ports.MethodDocumentRedo)
			},
		},
	)
}

func (b *bindings) createDocument(kind domain.DocumentKind) registry.Operation {
	return registry.Operation{
		Name:        "document.create_" + string(kind),
		Description: "Create a new " + string(kind) + " document and make it active.",
		Params: []registry.Param{
			optional("template", schema.String(), nil, "Template file to start from."),
		},
		Effect: registry.Mutating,
		Scope:  registry.ScopeApplication,
		Handler: func(ctx context.Context, c *registry.Call) (any, error) {
			return b.sess.CreateDocument(ctx, kind, c.String("template"))
		},
	}
}

func (b *bindings) openDocument(name string, background bool) registry.Operation {
	desc := "Open a file and make it active."
	if background {
		desc = "Open a file without showing its window and make it active."
	}
	return registry.Operation{
		Name:        name,
		Description: desc,
		Params: []registry.Param{
			required("file_path", schema.String(), "Path of the file to open."),
		},
		Effect: registry.Mutating,
		Scope:  registry.ScopeApplication,
		Handler: func(ctx context.Context, c *registry.Call) (any, error) {
			return b.sess.OpenDocument(ctx, c.String("file_path"), background)
		},
	}
}
