package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/edgebridge/pkg/adapters/memory"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/aretw0/edgebridge/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connected(t *testing.T) (*session.Session, *memory.Engine) {
	t.Helper()
	engine := memory.NewEngine()
	s := session.New(engine)
	_, err := s.Connect(context.Background(), true)
	require.NoError(t, err)
	return s, engine
}

func TestConnect_Idempotent(t *testing.T) {
	ctx := context.Background()
	engine := memory.NewEngine(memory.WithRunningInstance())
	s := session.New(engine)

	first, err := s.Connect(ctx, false)
	require.NoError(t, err)
	calls := len(engine.Calls())

	second, err := s.Connect(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, engine.Calls(), calls)
	assert.True(t, s.Connected())
}

func TestConnect_Failures(t *testing.T) {
	ctx := context.Background()

	_, err := session.New(memory.NewEngine()).Connect(ctx, false)
	assert.True(t, domain.IsKind(err, domain.KindEngineUnavailable), "got %v", err)

	launchErr := &domain.EngineFault{Message: "license server unreachable", Diagnostic: "0x8004"}
	_, err = session.New(memory.NewEngine(memory.WithLaunchError(launchErr))).Connect(ctx, true)
	require.True(t, domain.IsKind(err, domain.KindLaunchFailed), "got %v", err)

	var classified *domain.Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, "0x8004", classified.Detail)
}

func TestStatus_StaleConnection(t *testing.T) {
	s, engine := connected(t)
	ctx := context.Background()

	assert.True(t, s.Status(ctx).Connected)

	engine.Crash(errors.New("RPC server unavailable"))
	status := s.Status(ctx)
	assert.False(t, status.Connected)
	assert.Nil(t, status.App)

	assert.False(t, session.New(engine).Status(ctx).Connected)
}

func TestDisconnectAndQuit(t *testing.T) {
	s, engine := connected(t)
	ctx := context.Background()

	_, err := s.CreateDocument(ctx, domain.DocumentPart, "")
	require.NoError(t, err)

	require.NoError(t, s.Disconnect(ctx))
	assert.False(t, s.Connected())
	require.NoError(t, s.Disconnect(ctx))

	_, err = s.ListOpen(ctx)
	assert.True(t, domain.IsKind(err, domain.KindNotConnected))

	// The engine was left running.
	_, err = s.Connect(ctx, false)
	require.NoError(t, err)

	require.NoError(t, s.Quit(ctx))
	assert.False(t, s.Connected())
	assert.Error(t, engine.Ping(ctx))

	assert.True(t, domain.IsKind(s.Quit(ctx), domain.KindNotConnected))
}

func TestDocuments_RequireConnection(t *testing.T) {
	s := session.New(memory.NewEngine())
	ctx := context.Background()

	_, err := s.CreateDocument(ctx, domain.DocumentPart, "")
	assert.True(t, domain.IsKind(err, domain.KindNotConnected))
	_, err = s.OpenDocument(ctx, "C:/parts/bracket.par", false)
	assert.True(t, domain.IsKind(err, domain.KindNotConnected))
	_, err = s.Activate(ctx, "0")
	assert.True(t, domain.IsKind(err, domain.KindNotConnected))
	_, err = s.Close(ctx, "", false)
	assert.True(t, domain.IsKind(err, domain.KindNotConnected))
}

func TestDocuments_ActivateRoundTrip(t *testing.T) {
	s, _ := connected(t)
	ctx := context.Background()

	a, err := s.CreateDocument(ctx, domain.DocumentPart, "")
	require.NoError(t, err)
	b, err := s.CreateDocument(ctx, domain.DocumentAssembly, "")
	require.NoError(t, err)

	active, _ := s.Active()
	assert.Equal(t, b.ID, active.ID)

	_, err = s.Activate(ctx, a.ID)
	require.NoError(t, err)
	_, err = s.Activate(ctx, b.Name)
	require.NoError(t, err)
	_, err = s.Activate(ctx, a.ID)
	require.NoError(t, err)

	resolved, err := s.ResolveDocument(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, a.ID, resolved.ID)

	byIndex, err := s.ResolveDocument(ctx, "1", false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, byIndex.ID)
}

func TestDocuments_CloseActiveEmptiesSlot(t *testing.T) {
	s, _ := connected(t)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, domain.DocumentPart, "")
	require.NoError(t, err)

	_, err = s.Close(ctx, "", false)
	require.NoError(t, err)

	_, ok := s.Active()
	assert.False(t, ok)
	_, err = s.ResolveDocument(ctx, "", true)
	assert.True(t, domain.IsKind(err, domain.KindNoActiveDocument))
	_, err = s.ResolveDocument(ctx, doc.ID, true)
	assert.True(t, domain.IsKind(err, domain.KindNoActiveDocument))
}

func TestDocuments_StaleReference(t *testing.T) {
	s, engine := connected(t)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, domain.DocumentPart, "")
	require.NoError(t, err)
	engine.CloseExternally(doc.Ref)

	// Read-only resolution reports but keeps the handle.
	_, err = s.ResolveDocument(ctx, "", false)
	assert.True(t, domain.IsKind(err, domain.KindNoActiveDocument))
	_, ok := s.Active()
	assert.True(t, ok)

	list, err := s.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Mutating resolution prunes it.
	_, err = s.ResolveDocument(ctx, "", true)
	assert.True(t, domain.IsKind(err, domain.KindNoActiveDocument))
	_, ok = s.Active()
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot().Documents)
}

func TestDocuments_OpenAndCloseAll(t *testing.T) {
	s, _ := connected(t)
	ctx := context.Background()

	doc, err := s.OpenDocument(ctx, "C:/parts/bracket.par", true)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentPart, doc.Kind)
	assert.Equal(t, "C:/parts/bracket.par", doc.Path)

	_, err = s.CreateDocument(ctx, domain.DocumentDraft, "")
	require.NoError(t, err)

	n, err := s.CloseAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDocuments_EngineFailure(t *testing.T) {
	s, engine := connected(t)
	engine.FailNext(ports.MethodDocumentsAdd, &domain.EngineFault{Method: ports.MethodDocumentsAdd, Message: "template not found", Diagnostic: "E_FAIL"})

	_, err := s.CreateDocument(context.Background(), domain.DocumentPart, "missing.par")
	assert.True(t, domain.IsKind(err, domain.KindOperationFailed))
	_, ok := s.Active()
	assert.False(t, ok)
}

type fakeLocker struct {
	locked   int
	unlocked int
	err      error
}

func (f *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.locked++
	return func(context.Context) error {
		f.unlocked++
		return nil
	}, nil
}

func TestConnect_HoldsEngineLock(t *testing.T) {
	ctx := context.Background()
	locker := &fakeLocker{}
	s := session.New(memory.NewEngine(), session.WithLocker(locker, time.Minute))

	_, err := s.Connect(ctx, true)
	require.NoError(t, err)
	_, err = s.Connect(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, locker.locked)

	require.NoError(t, s.Disconnect(ctx))
	assert.Equal(t, 1, locker.unlocked)
}

func TestConnect_LockReleasedOnFailure(t *testing.T) {
	locker := &fakeLocker{}
	s := session.New(memory.NewEngine(), session.WithLocker(locker, 0))

	_, err := s.Connect(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 1, locker.unlocked)
}

func TestConnect_LockContention(t *testing.T) {
	locker := &fakeLocker{err: errors.New("lock held")}
	s := session.New(memory.NewEngine(), session.WithLocker(locker, 0))

	_, err := s.Connect(context.Background(), true)
	assert.True(t, domain.IsKind(err, domain.KindEngineUnavailable))
	assert.False(t, s.Connected())
}
