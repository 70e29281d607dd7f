package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/aretw0/edgebridge/pkg/ports"
)

// Connect attaches to a running engine, launching one when none is found
// and startIfNeeded is set. Connecting twice returns the stored identity
// without touching the engine.
func (s *Session) Connect(ctx context.Context, startIfNeeded bool) (domain.AppInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return s.app, nil
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, EngineLockKey, s.lockTTL)
		if err != nil {
			return domain.AppInfo{}, &domain.Error{
				Kind:    domain.KindEngineUnavailable,
				Message: "engine instance is driven by another bridge",
				Err:     err,
			}
		}
		s.unlock = unlock
	}

	info, err := s.attach(ctx, startIfNeeded)
	if err != nil {
		s.releaseLocked(ctx)
		return domain.AppInfo{}, err
	}

	s.connected = true
	s.app = info
	s.resetLocked()
	s.logger.Info("Connected to engine", "version", info.Version, "pid", info.PID)
	return info, nil
}

func (s *Session) attach(ctx context.Context, startIfNeeded bool) (domain.AppInfo, error) {
	info, err := s.engine.Attach(ctx)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, ports.ErrNoInstance) {
		return domain.AppInfo{}, &domain.Error{
			Kind:    domain.KindEngineUnavailable,
			Message: fmt.Sprintf("attach failed: %v", err),
			Err:     err,
		}
	}
	if !startIfNeeded {
		return domain.AppInfo{}, &domain.Error{
			Kind:    domain.KindEngineUnavailable,
			Message: "no running engine instance found and start_if_needed is false",
			Err:     err,
		}
	}

	s.logger.Debug("No running engine instance, launching one")
	info, err = s.engine.Launch(ctx)
	if err != nil {
		out := &domain.Error{Kind: domain.KindLaunchFailed, Message: fmt.Sprintf("launch failed: %v", err), Err: err}
		var fault *domain.EngineFault
		if errors.As(err, &fault) {
			out.Detail = fault.Diagnostic
		}
		return domain.AppInfo{}, out
	}
	return info, nil
}

// Disconnect releases the engine reference without asking it to exit.
// Disconnecting an already disconnected session is a no-op.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}
	s.disconnectLocked(ctx)
	s.logger.Info("Disconnected from engine")
	return nil
}

// Quit asks the engine to terminate, then disconnects.
func (s *Session) Quit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireConnectedLocked(); err != nil {
		return err
	}
	if err := s.engine.Quit(ctx); err != nil {
		return domain.OperationFailed(fmt.Errorf("quit: %w", err))
	}
	s.disconnectLocked(ctx)
	s.logger.Info("Engine terminated")
	return nil
}

func (s *Session) disconnectLocked(ctx context.Context) {
	s.connected = false
	s.app = domain.AppInfo{}
	s.resetLocked()
	s.releaseLocked(ctx)
}

func (s *Session) releaseLocked(ctx context.Context) {
	if s.unlock == nil {
		return
	}
	if err := s.unlock(ctx); err != nil {
		s.logger.Warn("Failed to release engine lock (will expire via TTL)",
			"key", EngineLockKey,
			"err", err,
		)
	}
	s.unlock = nil
}

// Connected reports the recorded connection state without probing the engine.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Status probes the engine. A stale link is reported as disconnected, never as an error.
func (s *Session) Status(ctx context.Context) domain.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return domain.ConnectionStatus{Connected: false}
	}
	if err := s.engine.Ping(ctx); err != nil {
		s.logger.Debug("Engine ping failed", "err", err)
		return domain.ConnectionStatus{Connected: false}
	}
	app := s.app
	return domain.ConnectionStatus{Connected: true, App: &app}
}

// App returns the identity of the attached engine.
func (s *Session) App() (domain.AppInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireConnectedLocked(); err != nil {
		return domain.AppInfo{}, err
	}
	return s.app, nil
}
