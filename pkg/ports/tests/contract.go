// Package tests holds reusable contract suites for port implementations.
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/kanban/pkg/ports"
)

// LockerContractTest verifies that a locker complies with ports.DistributedLocker.
// Keys are namespaced by the test name, so one locker can run the suite repeatedly.
func LockerContractTest(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()
	ctx := context.Background()
	key := func(name string) string { return "contract:" + t.Name() + ":" + name }

	// 1. Acquire and release
	t.Run("LockUnlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key("a"), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking: %v", err)
		}
		if unlock == nil {
			t.Fatal("expected an unlock func, got nil")
		}
		if err := unlock(ctx); err != nil {
			t.Errorf("unexpected error unlocking: %v", err)
		}
	})

	// 2. A held key blocks other callers until their context ends
	t.Run("Exclusive", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key("b"), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking: %v", err)
		}
		defer unlock(ctx)

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		if _, err := locker.Lock(waitCtx, key("b"), 5*time.Second); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded for a held lock, got %v", err)
		}
	})

	// 3. Release lets the next caller in
	t.Run("Reacquire", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, key("c"), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking: %v", err)
		}
		if err := unlock(ctx); err != nil {
			t.Fatalf("unexpected error unlocking: %v", err)
		}

		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		again, err := locker.Lock(waitCtx, key("c"), 5*time.Second)
		if err != nil {
			t.Fatalf("expected to reacquire a released lock, got %v", err)
		}
		_ = again(ctx)
	})

	// 4. Different keys do not contend
	t.Run("IndependentKeys", func(t *testing.T) {
		unlockA, err := locker.Lock(ctx, key("x"), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking x: %v", err)
		}
		defer unlockA(ctx)

		waitCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := locker.Lock(waitCtx, key("y"), 5*time.Second)
		if err != nil {
			t.Fatalf("unexpected error locking y while x is held: %v", err)
		}
		_ = unlockB(ctx)
	})
}
