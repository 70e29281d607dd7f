package domain

import (
	"context"
	"time"
)

// InvokeEvent describes a command about to reach the engine.
type InvokeEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Command   string         `json:"command"`
	Variant   string         `json:"variant,omitempty"`
	Operation string         `json:"operation,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

// ResultEvent describes the outcome of a command. Kind is empty on success.
type ResultEvent struct {
	InvokeEvent
	Duration time.Duration `json:"duration"`
	Kind     Kind          `json:"kind,omitempty"`
}

// ReadEvent describes a resource read.
type ReadEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	URI       string        `json:"uri"`
	Template  string        `json:"template,omitempty"`
	Duration  time.Duration `json:"duration"`
	Kind      Kind          `json:"kind,omitempty"`
}

// LifecycleHooks defines callbacks for observability.
type LifecycleHooks struct {
	OnInvoke func(context.Context, *InvokeEvent)
	OnResult func(context.Context, *ResultEvent)
	OnRead   func(context.Context, *ReadEvent)
}

// MultiHooks fans every event out to each set of hooks in order.
func MultiHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnInvoke: func(ctx context.Context, e *InvokeEvent) {
			for _, h := range hooks {
				if h.OnInvoke != nil {
					h.OnInvoke(ctx, e)
				}
			}
		},
		OnResult: func(ctx context.Context, e *ResultEvent) {
			for _, h := range hooks {
				if h.OnResult != nil {
					h.OnResult(ctx, e)
				}
			}
		},
		OnRead: func(ctx context.Context, e *ReadEvent) {
			for _, h := range hooks {
				if h.OnRead != nil {
					h.OnRead(ctx, e)
				}
			}
		},
	}
}
