package domain

import (
	"context"
	"time"
)

// TransitionOutcome classifies the result of dispatching an action.
type TransitionOutcome string

const (
	OutcomeApplied  TransitionOutcome = "applied"  // state changed
	OutcomeNoop     TransitionOutcome = "noop"     // preconditions failed, state untouched
	OutcomeRejected TransitionOutcome = "rejected" // guarded deletion set a user-visible error
)

// StoreOp names a persistence operation.
type StoreOp string

const (
	StoreLoad  StoreOp = "load"
	StoreSave  StoreOp = "save"
	StoreClear StoreOp = "clear"
)

// TransitionEvent describes one dispatched action.
type TransitionEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	Action    ActionKind        `json:"action"`
	Outcome   TransitionOutcome `json:"outcome"`
}

// StoreEvent describes one persistence round-trip.
type StoreEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Op        StoreOp       `json:"op"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for board observability.
type LifecycleHooks struct {
	OnTransition func(context.Context, *TransitionEvent)
	OnStore      func(context.Context, *StoreEvent)
}
