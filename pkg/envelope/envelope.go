// Package envelope is the single choke point that turns every outcome
// (a plain value, an engine failure, a context check, a panic) into the
// uniform result shape returned to callers.
package envelope

import (
	"fmt"
	"runtime/debug"

	"github.com/aretw0/edgebridge/pkg/domain"
)

// StatusOK marks a successful envelope.
const StatusOK = "ok"

// Envelope is the result of one invocation.
// Success carries Status and Data; failure carries Error, Message and optionally Detail.
type Envelope struct {
	Status  string      `json:"status,omitempty"`
	Data    any         `json:"data,omitempty"`
	Error   domain.Kind `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// OK wraps a successful result.
func OK(data any) Envelope {
	return Envelope{Status: StatusOK, Data: data}
}

// Fail wraps a failure. Unclassified errors become OperationFailed.
func Fail(err error) Envelope {
	if err == nil {
		err = domain.NewError(domain.KindOperationFailed, "unknown failure")
	}
	classified := domain.OperationFailed(err)
	return Envelope{
		Error:   classified.Kind,
		Message: classified.Message,
		Detail:  classified.Detail,
	}
}

// From picks OK or Fail depending on err.
func From(data any, err error) Envelope {
	if err != nil {
		return Fail(err)
	}
	return OK(data)
}

// Capture runs fn and normalizes its outcome. A panic inside fn is
// recovered and reported as OperationFailed with the stack as detail.
func Capture(fn func() (any, error)) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			env = Fail(Recovered(r))
		}
	}()
	return From(fn())
}

// Recovered converts a recovered panic value into a classified error.
func Recovered(r any) *domain.Error {
	return &domain.Error{
		Kind:    domain.KindOperationFailed,
		Message: fmt.Sprintf("operation panicked: %v", r),
		Detail:  string(debug.Stack()),
	}
}

// IsOK reports whether the envelope carries a success.
func (e Envelope) IsOK() bool {
	return e.Status == StatusOK
}

// Err rebuilds the classified error of a failed envelope, or nil.
func (e Envelope) Err() error {
	if e.IsOK() || e.Error == "" {
		return nil
	}
	return &domain.Error{Kind: e.Error, Message: e.Message, Detail: e.Detail}
}
