package process

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

// Serve answers bridge requests read from r with engine, writing responses to w.
// It returns on EOF or after a quit request has been answered.
func Serve(ctx context.Context, engine ports.Engine, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), 16<<20)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			if err := enc.Encode(Response{Error: &ResponseError{Code: "bad_request", Message: err.Error()}}); err != nil {
				return err
			}
			continue
		}

		result, err := handle(ctx, engine, req)
		resp := Response{ID: req.ID}
		if err != nil {
			resp.Error = encodeError(err)
		} else if result != nil {
			raw, err := json.Marshal(result)
			if err != nil {
				resp.Error = &ResponseError{Code: "encode", Message: err.Error()}
			} else {
				resp.Result = raw
			}
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		if req.Op == OpQuit && err == nil {
			return nil
		}
	}
	return scanner.Err()
}

func handle(ctx context.Context, engine ports.Engine, req Request) (any, error) {
	switch req.Op {
	case OpAttach:
		return engine.Attach(ctx)
	case OpLaunch:
		return engine.Launch(ctx)
	case OpQuit:
		return nil, engine.Quit(ctx)
	case OpPing:
		return nil, engine.Ping(ctx)
	case OpAlive:
		return engine.Alive(ctx, domain.Ref(req.Target)), nil
	case OpInvoke:
		return engine.Invoke(ctx, ports.Call{Target: domain.Ref(req.Target), Method: req.Method, Args: req.Args})
	}
	return nil, fmt.Errorf("unknown op %q", req.Op)
}

func encodeError(err error) *ResponseError {
	switch {
	case errors.Is(err, ports.ErrNoInstance):
		return &ResponseError{Code: CodeNoInstance, Message: err.Error()}
	case errors.Is(err, ports.ErrStaleReference):
		return &ResponseError{Code: CodeStaleReference, Message: err.Error()}
	}
	var fault *domain.EngineFault
	if errors.As(err, &fault) {
		return &ResponseError{Code: "engine_fault", Message: fault.Message, Detail: fault.Diagnostic}
	}
	return &ResponseError{Code: "error", Message: err.Error()}
}
