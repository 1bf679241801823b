package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/kanban/pkg/domain"
)

// LogHooks logs transitions at debug level and store round-trips at debug,
// or warn when they fail. A missing board is not a failure.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition", "action", e.Action, "outcome", e.Outcome)
		},
		OnStore: func(ctx context.Context, e *domain.StoreEvent) {
			if e.Err != nil && !errors.Is(e.Err, domain.ErrBoardNotFound) {
				logger.WarnContext(ctx, "store operation failed", "op", e.Op, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "store operation", "op", e.Op, "duration", e.Duration)
		},
	}
}

// Chain fans each event out to every hook set, in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	var onTransition []func(context.Context, *domain.TransitionEvent)
	var onStore []func(context.Context, *domain.StoreEvent)
	for _, h := range hooks {
		if h.OnTransition != nil {
			onTransition = append(onTransition, h.OnTransition)
		}
		if h.OnStore != nil {
			onStore = append(onStore, h.OnStore)
		}
	}
	if len(onTransition) > 0 {
		out.OnTransition = func(ctx context.Context, e *domain.TransitionEvent) {
			for _, fn := range onTransition {
				fn(ctx, e)
			}
		}
	}
	if len(onStore) > 0 {
		out.OnStore = func(ctx context.Context, e *domain.StoreEvent) {
			for _, fn := range onStore {
				fn(ctx, e)
			}
		}
	}
	return out
}
