package session

import (
	"context"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

type profileResult struct {
	Ref  string `mapstructure:"ref"`
	Name string `mapstructure:"name"`
}

// OpenSketch starts a profile on the given reference plane: Idle/Closed -> Open.
// An already open sketch is rejected before the engine is called.
func (s *Session) OpenSketch(ctx context.Context, doc domain.DocumentHandle, plane string, planeIndex int) (domain.Sketch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk := s.sketchLocked(doc.ID)
	if sk.State == domain.SketchOpen {
		return *sk, domain.Errorf(domain.KindSketchAlreadyOpen,
			"a sketch is already open on plane %s; close it before opening another", sk.Plane)
	}

	res, err := s.engine.Invoke(ctx, ports.Call{Target: doc.Ref, Method: ports.MethodProfileSetsAdd, Args: []any{planeIndex}})
	if err != nil {
		return *sk, domain.OperationFailed(err)
	}
	var out profileResult
	if err := decodeResult(res, &out); err != nil {
		return *sk, domain.OperationFailed(err)
	}

	*sk = domain.Sketch{
		State:   domain.SketchOpen,
		Name:    out.Name,
		Plane:   plane,
		Profile: domain.Ref(out.Ref),
	}
	return *sk, nil
}

// RequireOpen returns the document's sketch if it is Open, NoOpenSketch otherwise.
func (s *Session) RequireOpen(docID string) (domain.Sketch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk := s.peekLocked(docID)
	if sk.State != domain.SketchOpen {
		return *sk, domain.NewError(domain.KindNoOpenSketch, "no open sketch; open one with manage_sketch first")
	}
	return *sk, nil
}

// RequireProfile returns the document's sketch if it is Closed and can feed a feature.
func (s *Session) RequireProfile(docID string) (domain.Sketch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk := s.peekLocked(docID)
	switch sk.State {
	case domain.SketchClosed:
		return *sk, nil
	case domain.SketchOpen:
		return *sk, domain.NewError(domain.KindNoOpenSketch, "the sketch is still open; close it before creating a feature")
	default:
		return *sk, domain.NewError(domain.KindNoOpenSketch, "no closed sketch profile on this document")
	}
}

// AddElements records n drawn elements on an Open sketch.
func (s *Session) AddElements(docID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk := s.peekLocked(docID)
	if sk.State == domain.SketchOpen {
		sk.Elements += n
	}
}

// CloseSketch validates the profile in the engine: Open -> Closed.
// An engine rejection (unclosed loop, no geometry) leaves the sketch Open.
func (s *Session) CloseSketch(ctx context.Context, docID string) (domain.Sketch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk := s.peekLocked(docID)
	if sk.State != domain.SketchOpen {
		return *sk, domain.NewError(domain.KindNoOpenSketch, "no open sketch to close")
	}
	if _, err := s.engine.Invoke(ctx, ports.Call{Target: sk.Profile, Method: ports.MethodProfileEnd, Args: []any{0}}); err != nil {
		return *sk, domain.OperationFailed(err)
	}
	sk.State = domain.SketchClosed
	return *sk, nil
}

// Sketch returns the document's sketch context.
func (s *Session) Sketch(docID string) domain.Sketch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.peekLocked(docID)
}

// peekLocked reads the sketch context without creating one.
func (s *Session) peekLocked(docID string) *domain.Sketch {
	if sk, ok := s.sketches[docID]; ok {
		return sk
	}
	return &domain.Sketch{State: domain.SketchIdle}
}

func (s *Session) sketchLocked(docID string) *domain.Sketch {
	sk, ok := s.sketches[docID]
	if !ok {
		sk = &domain.Sketch{State: domain.SketchIdle}
		s.sketches[docID] = sk
	}
	return sk
}
