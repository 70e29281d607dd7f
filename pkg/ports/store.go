package ports

import (
	"context"

	"github.com/aretw0/edgebridge/pkg/domain"
)

// SnapshotStore persists inspectable session snapshots.
type SnapshotStore interface {
	// Save persists the snapshot under sessionID.
	Save(ctx context.Context, sessionID string, snapshot *domain.Snapshot) error

	// Load retrieves the snapshot for sessionID.
	// Returns domain.ErrSnapshotNotFound if it does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for sessionID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored snapshot.
	List(ctx context.Context) ([]string, error)
}
