package domain

import (
	"errors"
	"fmt"
)

// Kind is the stable, caller-facing error category.
// Callers branch on Kind, never on message text.
type Kind string

const (
	KindNotConnected             Kind = "NotConnected"
	KindEngineUnavailable        Kind = "EngineUnavailable"
	KindLaunchFailed             Kind = "LaunchFailed"
	KindNoActiveDocument         Kind = "NoActiveDocument"
	KindNoOpenSketch             Kind = "NoOpenSketch"
	KindSketchAlreadyOpen        Kind = "SketchAlreadyOpen"
	KindUnknownCommand           Kind = "UnknownCommand"
	KindUnknownVariant           Kind = "UnknownVariant"
	KindMissingParameter         Kind = "MissingParameter"
	KindUnknownResource          Kind = "UnknownResource"
	KindInvalidResourceParameter Kind = "InvalidResourceParameter"
	KindOperationFailed          Kind = "OperationFailed"
)

// ErrSnapshotNotFound is returned when a session snapshot cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Error is a classified failure.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error with a fixed message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// EngineFault is raised by engine adapters when the external application rejects a call.
// Diagnostic carries the engine's native text (COM error, stack, bridge stderr).
type EngineFault struct {
	Method     string
	Message    string
	Diagnostic string
}

func (f *EngineFault) Error() string {
	if f.Method == "" {
		return f.Message
	}
	return fmt.Sprintf("%s: %s", f.Method, f.Message)
}

// OperationFailed wraps an underlying engine failure.
// An error that is already classified is returned unchanged.
func OperationFailed(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	out := &Error{Kind: KindOperationFailed, Message: err.Error(), Err: err}
	var fault *EngineFault
	if errors.As(err, &fault) {
		out.Message = fault.Error()
		out.Detail = fault.Diagnostic
	}
	return out
}

// KindOf reports the Kind of err. Unclassified errors are OperationFailed.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindOperationFailed
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
