package process

import "encoding/json"

// Ops understood by a bridge helper.
const (
	OpAttach = "attach"
	OpLaunch = "launch"
	OpQuit   = "quit"
	OpPing   = "ping"
	OpAlive  = "alive"
	OpInvoke = "invoke"
)

// Error codes a helper may answer with. Anything else is an engine fault.
const (
	CodeNoInstance     = "no_instance"
	CodeStaleReference = "stale_reference"
)

// Request is one line written to the helper's stdin.
type Request struct {
	ID     uint64 `json:"id"`
	Op     string `json:"op"`
	Target string `json:"target,omitempty"`
	Method string `json:"method,omitempty"`
	Args   []any  `json:"args,omitempty"`
}

// Response is one line read from the helper's stdout.
type Response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
}

// ResponseError carries the helper's rejection.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
