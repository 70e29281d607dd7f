package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
	"github.com/google/uuid"
)

// EngineLockKey is the distributed lock held while a session is connected.
const EngineLockKey = "edgebridge:engine"

// DefaultLockTTL bounds how long a crashed process can keep the engine locked.
const DefaultLockTTL = 30 * time.Second

// Session is the connection, document and sketch context of one process.
type Session struct {
	id     string
	engine ports.Engine

	store   ports.SnapshotStore     // Optional snapshot persistence
	locker  ports.DistributedLocker // Optional engine-instance lock
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	connected bool
	app       domain.AppInfo
	unlock    ports.UnlockFunc

	docs     map[string]*domain.DocumentHandle
	order    []string
	active   string
	sketches map[string]*domain.Sketch
}

// Option configures the Session.
type Option func(*Session)

// WithLogger configures a logger for the Session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStore persists a snapshot after every mutation.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithLocker makes Connect hold EngineLockKey until Disconnect or Quit.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Session) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithID sets the session ID used for snapshots. Defaults to a random UUID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New creates an empty, disconnected session bound to engine.
func New(engine ports.Engine, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		engine:   engine,
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(),
		now:      time.Now,
		docs:     make(map[string]*domain.DocumentHandle),
		sketches: make(map[string]*domain.Sketch),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Engine returns the engine the session drives.
func (s *Session) Engine() ports.Engine {
	return s.engine
}

// Store returns the snapshot store, or nil.
func (s *Session) Store() ports.SnapshotStore {
	return s.store
}

func (s *Session) requireConnectedLocked() error {
	if !s.connected {
		return domain.NewError(domain.KindNotConnected, "not connected to the engine; call manage_connection first")
	}
	return nil
}

// reset forgets every document and sketch. Callers hold s.mu.
func (s *Session) resetLocked() {
	s.docs = make(map[string]*domain.DocumentHandle)
	s.order = nil
	s.active = ""
	s.sketches = make(map[string]*domain.Sketch)
}
