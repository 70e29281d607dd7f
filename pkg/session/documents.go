package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// documentResult is what the engine answers to Documents.Add and Documents.Open.
type documentResult struct {
	Ref  string `mapstructure:"ref"`
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

// CreateDocument asks the engine for a new document and makes it active.
func (s *Session) CreateDocument(ctx context.Context, kind domain.DocumentKind, template string) (domain.DocumentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireConnectedLocked(); err != nil {
		return domain.DocumentHandle{}, err
	}
	res, err := s.engine.Invoke(ctx, ports.Call{Method: ports.MethodDocumentsAdd, Args: []any{string(kind), template}})
	if err != nil {
		return domain.DocumentHandle{}, domain.OperationFailed(err)
	}
	return s.trackLocked(kind, res)
}

// OpenDocument opens path in the engine and makes it active.
// In background mode the engine opens the file without showing a window.
func (s *Session) OpenDocument(ctx context.Context, path string, background bool) (domain.DocumentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireConnectedLocked(); err != nil {
		return domain.DocumentHandle{}, err
	}
	res, err := s.engine.Invoke(ctx, ports.Call{Method: ports.MethodDocumentsOpen, Args: []any{path, background}})
	if err != nil {
		return domain.DocumentHandle{}, domain.OperationFailed(err)
	}
	var kind domain.DocumentKind
	if m, ok := res.(map[string]any); ok {
		if k, err := domain.ParseDocumentKind(fmt.Sprint(m["kind"])); err == nil {
			kind = k
		}
	}
	h, err := s.trackLocked(kind, res)
	if err != nil {
		return h, err
	}
	if h.Path == "" {
		s.docs[h.ID].Path = path
		h.Path = path
	}
	return h, nil
}

func (s *Session) trackLocked(kind domain.DocumentKind, res any) (domain.DocumentHandle, error) {
	var out documentResult
	if err := decodeResult(res, &out); err != nil {
		return domain.DocumentHandle{}, domain.OperationFailed(err)
	}
	if out.Ref == "" {
		return domain.DocumentHandle{}, domain.NewError(domain.KindOperationFailed, "engine returned no document reference")
	}

	h := &domain.DocumentHandle{
		ID:   uuid.NewString(),
		Kind: kind,
		Name: out.Name,
		Path: out.Path,
		Ref:  domain.Ref(out.Ref),
	}
	s.docs[h.ID] = h
	s.order = append(s.order, h.ID)
	s.sketches[h.ID] = &domain.Sketch{State: domain.SketchIdle}
	s.active = h.ID
	s.logger.Debug("Document tracked", "document", h.ID, "name", h.Name, "kind", h.Kind)
	return *h, nil
}

// Activate makes the document selected by key (handle ID, name or index) active.
func (s *Session) Activate(ctx context.Context, key string) (domain.DocumentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.resolveLocked(ctx, key, true)
	if err != nil {
		return domain.DocumentHandle{}, err
	}
	if _, err := s.engine.Invoke(ctx, ports.Call{Target: h.Ref, Method: ports.MethodDocumentActivate}); err != nil {
		return domain.DocumentHandle{}, domain.OperationFailed(err)
	}
	s.active = h.ID
	return *h, nil
}

// Close closes the document selected by key ("" = active).
// Closing the active document empties the active slot.
func (s *Session) Close(ctx context.Context, key string, save bool) (domain.DocumentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.resolveLocked(ctx, key, true)
	if err != nil {
		return domain.DocumentHandle{}, err
	}
	if _, err := s.engine.Invoke(ctx, ports.Call{Target: h.Ref, Method: ports.MethodDocumentClose, Args: []any{save}}); err != nil {
		if !errors.Is(err, ports.ErrStaleReference) {
			return domain.DocumentHandle{}, domain.OperationFailed(err)
		}
	}
	s.forgetLocked(h.ID)
	return *h, nil
}

// CloseAll closes every tracked document and returns how many were closed.
func (s *Session) CloseAll(ctx context.Context, save bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireConnectedLocked(); err != nil {
		return 0, err
	}
	closed := 0
	for _, id := range append([]string(nil), s.order...) {
		h := s.docs[id]
		_, err := s.engine.Invoke(ctx, ports.Call{Target: h.Ref, Method: ports.MethodDocumentClose, Args: []any{save}})
		if err != nil && !errors.Is(err, ports.ErrStaleReference) {
			return closed, domain.OperationFailed(err)
		}
		s.forgetLocked(id)
		closed++
	}
	return closed, nil
}

// ListOpen returns the tracked documents that are still alive in the engine.
// Dead handles are skipped but not pruned.
func (s *Session) ListOpen(ctx context.Context) ([]domain.DocumentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireConnectedLocked(); err != nil {
		return nil, err
	}
	out := make([]domain.DocumentHandle, 0, len(s.order))
	for _, id := range s.order {
		h := s.docs[id]
		if s.engine.Alive(ctx, h.Ref) {
			out = append(out, *h)
		}
	}
	return out, nil
}

// Active returns the handle in the active slot without validating it.
func (s *Session) Active() (domain.DocumentHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.docs[s.active]
	if !ok {
		return domain.DocumentHandle{}, false
	}
	return *h, true
}

// ResolveDocument returns the explicit document, or the active one when explicit is empty.
// The reference is re-validated against the engine; a dead one yields NoActiveDocument
// and, when prune is set, is forgotten.
func (s *Session) ResolveDocument(ctx context.Context, explicit string, prune bool) (domain.DocumentHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.resolveLocked(ctx, explicit, prune)
	if err != nil {
		return domain.DocumentHandle{}, err
	}
	return *h, nil
}

// SetPath records the path a document was saved to.
func (s *Session) SetPath(id, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.docs[id]; ok {
		h.Path = path
	}
}

func (s *Session) resolveLocked(ctx context.Context, key string, prune bool) (*domain.DocumentHandle, error) {
	if err := s.requireConnectedLocked(); err != nil {
		return nil, err
	}

	var h *domain.DocumentHandle
	if key == "" {
		if s.active == "" {
			return nil, domain.NewError(domain.KindNoActiveDocument, "no active document; create or open one first")
		}
		h = s.docs[s.active]
	} else {
		h = s.lookupLocked(key)
		if h == nil {
			return nil, domain.Errorf(domain.KindNoActiveDocument, "no tracked document %q", key)
		}
	}

	if !s.engine.Alive(ctx, h.Ref) {
		if prune {
			s.forgetLocked(h.ID)
			s.logger.Debug("Pruned stale document", "document", h.ID, "name", h.Name)
		}
		return nil, domain.Errorf(domain.KindNoActiveDocument, "document %q is no longer open in the engine", h.Name)
	}
	return h, nil
}

// lookupLocked finds a handle by ID, then by name, then by 0-based index.
func (s *Session) lookupLocked(key string) *domain.DocumentHandle {
	if h, ok := s.docs[key]; ok {
		return h
	}
	for _, id := range s.order {
		if s.docs[id].Name == key {
			return s.docs[id]
		}
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(s.order) {
		return s.docs[s.order[i]]
	}
	return nil
}

func (s *Session) forgetLocked(id string) {
	delete(s.docs, id)
	delete(s.sketches, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == id {
		s.active = ""
	}
}

func decodeResult(res any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(res); err != nil {
		return fmt.Errorf("decode engine result: %w", err)
	}
	return nil
}
