package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/surveyor/pkg/domain"
)

// Combine returns hooks that call every non-nil hook in hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnStep = chain(out.OnStep, h.OnStep)
		out.OnDeadend = chain(out.OnDeadend, h.OnDeadend)
		out.OnErrored = chain(out.OnErrored, h.OnErrored)
		out.OnFiltered = chain(out.OnFiltered, h.OnFiltered)
		out.OnSpill = chain(out.OnSpill, h.OnSpill)
	}
	return out
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}

// LogHooks returns hooks that log archived paths and completed steps to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step completed",
				"step", e.Step,
				"duration", e.Duration,
				"active", e.Counts.Active,
				"spilled", e.Counts.Spilled,
			)
		},
		OnDeadend: func(ctx context.Context, e *domain.PathEvent) {
			logger.DebugContext(ctx, "path deadended", "path", e.PathID, "lineage_only", e.LineageOnly)
		},
		OnErrored: func(ctx context.Context, e *domain.PathEvent) {
			logger.InfoContext(ctx, "path errored", "path", e.PathID, "backtrace", e.Backtrace.String())
		},
	}
}
