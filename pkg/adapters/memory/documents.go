package memory

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

type document struct {
	ref       domain.Ref
	kind      string
	name      string
	path      string
	features  []*feature
	variables []*variable
	undo      []modelState
	redo      []modelState
}

// modelState is what Undo and Redo restore.
type modelState struct {
	features  []*feature
	variables []*variable
}

var kindNames = map[string]string{
	"part":        "Part",
	"assembly":    "Assembly",
	"sheet_metal": "SheetMetal",
	"draft":       "Draft",
	"weldment":    "Weldment",
}

var extensionKinds = map[string]string{
	".par": "part",
	".asm": "assembly",
	".psm": "sheet_metal",
	".dft": "draft",
	".pwd": "weldment",
}

func (d *document) info() map[string]any {
	return map[string]any{
		"ref":  string(d.ref),
		"name": d.name,
		"path": d.path,
		"kind": d.kind,
	}
}

func (d *document) checkpoint() {
	d.undo = append(d.undo, d.state())
	d.redo = nil
}

func (d *document) state() modelState {
	s := modelState{
		features:  append([]*feature(nil), d.features...),
		variables: make([]*variable, len(d.variables)),
	}
	for i, v := range d.variables {
		cp := *v
		s.variables[i] = &cp
	}
	return s
}

func (e *Engine) doc(method string, ref domain.Ref) (*document, error) {
	d, ok := e.docs[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", method, ports.ErrStaleReference)
	}
	return d, nil
}

func (e *Engine) addDocument(_ domain.Ref, args []any) (any, error) {
	kind, err := argString(ports.MethodDocumentsAdd, args, 0)
	if err != nil {
		return nil, err
	}
	prefix, ok := kindNames[kind]
	if !ok {
		return nil, fault(ports.MethodDocumentsAdd, "unknown document type %q", kind)
	}
	e.kinds[kind]++
	d := &document{
		ref:  e.nextRef("doc"),
		kind: kind,
		name: fmt.Sprintf("%s%d", prefix, e.kinds[kind]),
	}
	e.docs[d.ref] = d
	e.order = append(e.order, d.ref)
	return d.info(), nil
}

func (e *Engine) openDocument(_ domain.Ref, args []any) (any, error) {
	path, err := argString(ports.MethodDocumentsOpen, args, 0)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, fault(ports.MethodDocumentsOpen, "file name is empty")
	}
	kind, ok := extensionKinds[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fault(ports.MethodDocumentsOpen, "unsupported file type %q", filepath.Ext(path))
	}
	for _, ref := range e.order {
		if e.docs[ref].path == path {
			return e.docs[ref].info(), nil
		}
	}
	d := &document{
		ref:  e.nextRef("doc"),
		kind: kind,
		name: filepath.Base(path),
		path: path,
	}
	e.docs[d.ref] = d
	e.order = append(e.order, d.ref)
	return d.info(), nil
}

func (e *Engine) listDocuments(domain.Ref, []any) (any, error) {
	out := make([]any, 0, len(e.order))
	for i, ref := range e.order {
		info := e.docs[ref].info()
		info["index"] = i
		out = append(out, info)
	}
	return out, nil
}

func (e *Engine) activateDocument(target domain.Ref, _ []any) (any, error) {
	if _, err := e.doc(ports.MethodDocumentActivate, target); err != nil {
		return nil, err
	}
	return map[string]any{"activated": true}, nil
}

func (e *Engine) closeDocument(target domain.Ref, _ []any) (any, error) {
	if _, err := e.doc(ports.MethodDocumentClose, target); err != nil {
		return nil, err
	}
	e.dropDocument(target)
	return map[string]any{"closed": true}, nil
}

func (e *Engine) dropDocument(ref domain.Ref) {
	delete(e.docs, ref)
	for i, r := range e.order {
		if r == ref {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	for pref, p := range e.profiles {
		if p.doc == ref {
			delete(e.profiles, pref)
		}
	}
}

func (e *Engine) saveDocument(target domain.Ref, _ []any) (any, error) {
	d, err := e.doc(ports.MethodDocumentSave, target)
	if err != nil {
		return nil, err
	}
	if d.path == "" {
		return nil, fault(ports.MethodDocumentSave, "document has never been saved; a file path is required")
	}
	return map[string]any{"path": d.path}, nil
}

func (e *Engine) saveDocumentAs(target domain.Ref, args []any) (any, error) {
	d, err := e.doc(ports.MethodDocumentSaveAs, target)
	if err != nil {
		return nil, err
	}
	path, err := argString(ports.MethodDocumentSaveAs, args, 0)
	if err != nil {
		return nil, err
	}
	d.path = path
	d.name = filepath.Base(path)
	return map[string]any{"path": path}, nil
}

func (e *Engine) saveDocumentCopy(target domain.Ref, args []any) (any, error) {
	if _, err := e.doc(ports.MethodDocumentSaveCopyAs, target); err != nil {
		return nil, err
	}
	path, err := argString(ports.MethodDocumentSaveCopyAs, args, 0)
	if err != nil {
		return nil, err
	}
	return map[string]any{"path": path}, nil
}

func (e *Engine) undo(target domain.Ref, _ []any) (any, error) {
	d, err := e.doc(ports.MethodDocumentUndo, target)
	if err != nil {
		return nil, err
	}
	if len(d.undo) == 0 {
		return nil, fault(ports.MethodDocumentUndo, "nothing to undo")
	}
	prev := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, d.state())
	d.features, d.variables = prev.features, prev.variables
	return map[string]any{"features": len(d.features)}, nil
}

func (e *Engine) redo(target domain.Ref, _ []any) (any, error) {
	d, err := e.doc(ports.MethodDocumentRedo, target)
	if err != nil {
		return nil, err
	}
	if len(d.redo) == 0 {
		return nil, fault(ports.MethodDocumentRedo, "nothing to redo")
	}
	next := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, d.state())
	d.features, d.variables = next.features, next.variables
	return map[string]any{"features": len(d.features)}, nil
}

var refPlanes = []map[string]any{
	{"index": 1, "name": "Top (XZ)"},
	{"index": 2, "name": "Front (XY)"},
	{"index": 3, "name": "Right (YZ)"},
}

func (e *Engine) listRefPlanes(target domain.Ref, _ []any) (any, error) {
	if _, err := e.doc(ports.MethodRefPlanesList, target); err != nil {
		return nil, err
	}
	out := make([]any, len(refPlanes))
	for i, p := range refPlanes {
		out[i] = map[string]any{"index": p["index"], "name": p["name"]}
	}
	return out, nil
}
