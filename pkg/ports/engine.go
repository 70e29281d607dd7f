package ports

import (
	"context"
	"errors"

	"github.com/aretw0/edgebridge/pkg/domain"
)

var (
	// ErrNoInstance is returned by Engine.Attach when no engine instance is running.
	ErrNoInstance = errors.New("no running engine instance")

	// ErrStaleReference is returned when a call targets an object the engine no longer holds.
	ErrStaleReference = errors.New("stale engine reference")
)

// Call is one late-bound invocation on an engine object.
// Arguments are engine-native: lengths in metres, angles in radians.
type Call struct {
	Target domain.Ref `json:"target,omitempty"`
	Method string     `json:"method"`
	Args   []any      `json:"args,omitempty"`
}

// Engine is the boundary to the external, single-threaded CAD application.
// Every primitive the catalogue exposes is ultimately one Invoke.
type Engine interface {
	// Attach connects to an already running instance.
	// Returns ErrNoInstance when none is found.
	Attach(ctx context.Context) (domain.AppInfo, error)

	// Launch starts a new instance and attaches to it.
	Launch(ctx context.Context) (domain.AppInfo, error)

	// Quit asks the attached instance to terminate.
	Quit(ctx context.Context) error

	// Ping checks that the attached instance still answers.
	Ping(ctx context.Context) error

	// Alive reports whether ref still resolves inside the engine.
	// It never fails; unknown or stale references are simply not alive.
	Alive(ctx context.Context, ref domain.Ref) bool

	// Invoke performs one call and returns the engine's result.
	// Engine rejections should be reported as *domain.EngineFault.
	Invoke(ctx context.Context, call Call) (any, error)
}
