package session

import (
	"context"
	"fmt"

	"github.com/aretw0/edgebridge/pkg/domain"
)

// Snapshot returns a serialisable copy of the session state.
func (s *Session) Snapshot() *domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &domain.Snapshot{
		ID:        s.id,
		Connected: s.connected,
		Documents: make([]domain.DocumentHandle, 0, len(s.order)),
		Active:    s.active,
		Sketches:  make(map[string]domain.Sketch, len(s.sketches)),
		UpdatedAt: s.now().UTC(),
	}
	if s.connected {
		app := s.app
		snap.App = &app
	}
	for _, id := range s.order {
		snap.Documents = append(snap.Documents, *s.docs[id])
	}
	for id, sk := range s.sketches {
		snap.Sketches[id] = *sk
	}
	return snap
}

// Persist writes the current snapshot to the configured store.
// Failures are logged, never returned to the command that triggered them.
func (s *Session) Persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.id, s.Snapshot()); err != nil {
		s.logger.Warn("Failed to persist session snapshot", "session_id", s.id, "err", err)
	}
}

// Inspect loads a stored snapshot by ID.
func (s *Session) Inspect(ctx context.Context, id string) (*domain.Snapshot, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}
	return s.store.Load(ctx, id)
}
