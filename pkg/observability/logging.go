package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/edgebridge/pkg/domain"
)

// LogHooks writes an audit record for every result and read.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResult: func(ctx context.Context, e *domain.ResultEvent) {
			attrs := []any{
				"command", e.Command,
				"variant", e.Variant,
				"operation", e.Operation,
				"duration", e.Duration,
			}
			if e.Kind != "" {
				logger.WarnContext(ctx, "command_result", append(attrs, "kind", e.Kind)...)
				return
			}
			logger.InfoContext(ctx, "command_result", attrs...)
		},
		OnRead: func(ctx context.Context, e *domain.ReadEvent) {
			logger.DebugContext(ctx, "resource_read", "uri", e.URI, "template", e.Template, "kind", e.Kind)
		},
	}
}
