package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/aretw0/edgebridge/internal/logging"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

const (
	// stderrLimit bounds the helper diagnostics kept for error details.
	stderrLimit = 8 << 10
	stopGrace   = 2 * time.Second
)

// ErrHelperUnavailable marks failures to start or keep the helper process.
var ErrHelperUnavailable = errors.New("bridge helper unavailable")

// Engine implements ports.Engine by driving a bridge helper process.
// The helper is started on first use and restarted after it exits.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan []byte
	exited  chan struct{}
	stderr  *tailBuffer
	nextID  uint64
	started bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for helper lifecycle and stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine for the helper described by cfg.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attach reports ports.ErrNoInstance when the helper itself cannot be
// started or dies, so callers may still fall back to Launch.
func (e *Engine) Attach(ctx context.Context) (domain.AppInfo, error) {
	info, err := e.appInfo(ctx, OpAttach)
	if errors.Is(err, ErrHelperUnavailable) {
		return domain.AppInfo{}, fmt.Errorf("%w: %w", ports.ErrNoInstance, err)
	}
	return info, err
}

func (e *Engine) Launch(ctx context.Context) (domain.AppInfo, error) {
	return e.appInfo(ctx, OpLaunch)
}

func (e *Engine) appInfo(ctx context.Context, op string) (domain.AppInfo, error) {
	raw, err := e.roundTrip(ctx, Request{Op: op})
	if err != nil {
		return domain.AppInfo{}, err
	}
	var info domain.AppInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return domain.AppInfo{}, fmt.Errorf("decode %s result: %w", op, err)
	}
	return info, nil
}

// Quit asks the helper to terminate the engine, then stops the helper.
func (e *Engine) Quit(ctx context.Context) error {
	_, err := e.roundTrip(ctx, Request{Op: OpQuit})
	e.Close()
	return err
}

func (e *Engine) Ping(ctx context.Context) error {
	_, err := e.roundTrip(ctx, Request{Op: OpPing})
	return err
}

func (e *Engine) Alive(ctx context.Context, ref domain.Ref) bool {
	raw, err := e.roundTrip(ctx, Request{Op: OpAlive, Target: string(ref)})
	if err != nil {
		return false
	}
	var alive bool
	return json.Unmarshal(raw, &alive) == nil && alive
}

func (e *Engine) Invoke(ctx context.Context, call ports.Call) (any, error) {
	raw, err := e.roundTrip(ctx, Request{
		Op:     OpInvoke,
		Target: string(call.Target),
		Method: call.Method,
		Args:   call.Args,
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s result: %w", call.Method, err)
	}
	return out, nil
}

// Close stops the helper process if it is running.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) roundTrip(ctx context.Context, req Request) (json.RawMessage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.startLocked(); err != nil {
		return nil, err
	}

	e.nextID++
	req.ID = e.nextID
	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Op, err)
	}
	if _, err := e.stdin.Write(append(line, '\n')); err != nil {
		return nil, e.helperGone(req, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case data, ok := <-e.lines:
			if !ok {
				return nil, e.helperGone(req, io.ErrUnexpectedEOF)
			}
			var resp Response
			if err := json.Unmarshal(data, &resp); err != nil {
				e.logger.Warn("Ignoring malformed helper output", "line", string(data), "err", err)
				continue
			}
			if resp.ID != req.ID {
				// Answer to a request whose caller already gave up.
				continue
			}
			if resp.Error != nil {
				return nil, responseError(req, resp.Error)
			}
			return resp.Result, nil
		}
	}
}

func responseError(req Request, re *ResponseError) error {
	switch re.Code {
	case CodeNoInstance:
		return fmt.Errorf("%w: %s", ports.ErrNoInstance, re.Message)
	case CodeStaleReference:
		return fmt.Errorf("%w: %s", ports.ErrStaleReference, re.Message)
	}
	method := req.Method
	if method == "" {
		method = req.Op
	}
	return &domain.EngineFault{Method: method, Message: re.Message, Diagnostic: re.Detail}
}

// helperGone reports a dead helper and resets state so the next call restarts it.
func (e *Engine) helperGone(req Request, cause error) error {
	e.stopLocked()
	diag := e.stderr.String()
	method := req.Method
	if method == "" {
		method = req.Op
	}
	return fmt.Errorf("%w: %w", ErrHelperUnavailable, &domain.EngineFault{
		Method:     method,
		Message:    fmt.Sprintf("bridge helper exited: %v", cause),
		Diagnostic: diag,
	})
}

func (e *Engine) startLocked() error {
	if e.started {
		return nil
	}
	if e.cfg.Command == "" {
		return fmt.Errorf("%w: command is not configured", ErrHelperUnavailable)
	}

	cmd := exec.Command(e.cfg.Command, e.cfg.Args...)
	cmd.Dir = e.cfg.Dir
	cmd.Env = cmd.Environ()
	for k, v := range e.cfg.Environment {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("helper stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("helper stdout: %w", err)
	}
	stderr := &tailBuffer{limit: stderrLimit}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", ErrHelperUnavailable,
			&domain.EngineFault{Method: "start", Message: fmt.Sprintf("start bridge helper: %v", err)})
	}

	lines := make(chan []byte, 16)
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64<<10), 16<<20)
		for scanner.Scan() {
			lines <- bytes.Clone(scanner.Bytes())
		}
		close(lines)
		// Wait closes stdout, so it only runs once every line has been read.
		err := cmd.Wait()
		e.logger.Debug("Bridge helper exited", "pid", cmd.Process.Pid, "err", err)
	}()

	e.cmd, e.stdin, e.lines, e.exited, e.stderr = cmd, stdin, lines, exited, stderr
	e.started = true
	e.logger.Info("Started bridge helper", "command", e.cfg.Command, "pid", cmd.Process.Pid)
	return nil
}

func (e *Engine) stopLocked() {
	if !e.started {
		return
	}
	// Helpers exit on stdin EOF; kill the ones that do not within the grace period.
	_ = e.stdin.Close()
	grace := time.NewTimer(stopGrace)
	defer grace.Stop()
	for draining := true; draining; {
		select {
		case _, ok := <-e.lines:
			draining = ok
		case <-grace.C:
			_ = e.cmd.Process.Kill()
			grace.Reset(stopGrace)
		}
	}
	<-e.exited
	e.started = false
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(bytes.TrimSpace(b.buf))
}
