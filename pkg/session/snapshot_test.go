package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersist_WritesSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s := session.New(memory.NewEngine(),
		session.WithStore(store),
		session.WithID("bench-1"),
		session.WithClock(func() time.Time { return fixed }),
	)
	_, err := s.Connect(ctx, true)
	require.NoError(t, err)
	doc, err := s.CreateDocument(ctx, domain.DocumentPart, "")
	require.NoError(t, err)

	s.Persist(ctx)

	snap, err := s.Inspect(ctx, "bench-1")
	require.NoError(t, err)
	assert.True(t, snap.Connected)
	assert.Equal(t, doc.ID, snap.Active)
	assert.Equal(t, domain.SketchIdle, snap.Sketches[doc.ID].State)
	assert.True(t, fixed.Equal(snap.UpdatedAt))
}

type brokenStore struct{ memory.Store }

func (b *brokenStore) Save(context.Context, string, *domain.Snapshot) error {
	return errors.New("disk full")
}

func TestPersist_FailureIsSwallowed(t *testing.T) {
	s := session.New(memory.NewEngine(), session.WithStore(&brokenStore{}))
	assert.NotPanics(t, func() { s.Persist(context.Background()) })
}

func TestInspect_NoStore(t *testing.T) {
	_, err := session.New(memory.NewEngine()).Inspect(context.Background(), "x")
	assert.Error(t, err)
}
