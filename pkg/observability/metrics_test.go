package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.KindAddCard, Outcome: domain.OutcomeApplied})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.KindAddCard, Outcome: domain.OutcomeApplied})
	hooks.OnTransition(ctx, &domain.TransitionEvent{Action: domain.KindDeleteLane, Outcome: domain.OutcomeRejected})
	hooks.OnStore(ctx, &domain.StoreEvent{Op: domain.StoreSave, Duration: 3 * time.Millisecond})
	hooks.OnStore(ctx, &domain.StoreEvent{Op: domain.StoreSave, Err: errors.New("down")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("ADD_CARD", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("DELETE_LANE", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("save", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("save", "error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnTransition(context.Background(), &domain.TransitionEvent{Action: domain.KindUndoCard, Outcome: domain.OutcomeNoop})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `kanban_transitions_total{action="UNDO_CARD",outcome="noop"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { calls = append(calls, "b") },
		OnStore:      func(context.Context, *domain.StoreEvent) { calls = append(calls, "b-store") },
	}

	hooks := observability.Chain(a, domain.LifecycleHooks{}, b)
	hooks.OnTransition(context.Background(), &domain.TransitionEvent{})
	hooks.OnStore(context.Background(), &domain.StoreEvent{})
	assert.Equal(t, []string{"a", "b", "b-store"}, calls)

	empty := observability.Chain()
	assert.Nil(t, empty.OnTransition)
	assert.Nil(t, empty.OnStore)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	hooks := observability.LogHooks(logger)
	ctx := context.Background()

	hooks.OnStore(ctx, &domain.StoreEvent{Op: domain.StoreLoad, Err: domain.ErrBoardNotFound})
	assert.Empty(t, buf.String(), "missing board is not a warning")

	hooks.OnStore(ctx, &domain.StoreEvent{Op: domain.StoreSave, Err: errors.New("disk full")})
	assert.True(t, strings.Contains(buf.String(), "disk full"))
}
