package domain

import (
	"fmt"
	"strings"
)

// Ref is an opaque reference to an object living inside the engine.
type Ref string

// DocumentKind classifies engine documents.
type DocumentKind string

const (
	DocumentPart       DocumentKind = "part"
	DocumentAssembly   DocumentKind = "assembly"
	DocumentDraft      DocumentKind = "draft"
	DocumentSheetMetal DocumentKind = "sheet_metal"
	DocumentWeldment   DocumentKind = "weldment"
)

// DocumentKinds lists every kind the bridge can create.
var DocumentKinds = []DocumentKind{DocumentPart, DocumentAssembly, DocumentSheetMetal, DocumentDraft, DocumentWeldment}

// ParseDocumentKind accepts the canonical names plus the engine spellings ("Part", "SheetMetal").
func ParseDocumentKind(s string) (DocumentKind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	switch norm {
	case "part":
		return DocumentPart, nil
	case "assembly":
		return DocumentAssembly, nil
	case "draft", "drawing":
		return DocumentDraft, nil
	case "sheet_metal", "sheetmetal":
		return DocumentSheetMetal, nil
	case "weldment":
		return DocumentWeldment, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// DocumentHandle is the bridge's weak reference to an engine document.
// The engine owns the document; closing it there must clear the handle here.
type DocumentHandle struct {
	ID   string       `json:"id"`
	Kind DocumentKind `json:"kind"`
	Name string       `json:"name"`
	Path string       `json:"path,omitempty"`
	Ref  Ref          `json:"ref"`
}
