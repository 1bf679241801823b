package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/kanban/internal/logging"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/ports"
)

// DefaultLockKey names the distributed lock guarding the board.
const DefaultLockKey = "board"

// DefaultLockTTL bounds how long a crashed holder can block other replicas.
const DefaultLockTTL = 30 * time.Second

// Manager orchestrates board store access, ensuring safe concurrent operations.
type Manager struct {
	store ports.BoardStore

	mu sync.Mutex

	locker  ports.DistributedLocker // Optional distributed locker
	lockKey string
	lockTTL time.Duration
	logger  *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockKey overrides the distributed lock key.
func WithLockKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.lockKey = key
		}
	}
}

// WithLockTTL overrides the distributed lock expiry.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a new Manager over the given store.
func NewManager(store ports.BoardStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		lockKey: DefaultLockKey,
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the stored document. Reads take no lock: saves replace the
// document whole, so a reader sees either the old or the new one.
func (m *Manager) Load(ctx context.Context) ([]byte, error) {
	return m.store.Load(ctx)
}

// Save persists the document.
func (m *Manager) Save(ctx context.Context, data []byte) error {
	return m.WithLock(ctx, func(ctx context.Context) error {
		return m.store.Save(ctx, data)
	})
}

// Clear removes the stored document.
func (m *Manager) Clear(ctx context.Context) error {
	return m.WithLock(ctx, func(ctx context.Context) error {
		return m.store.Clear(ctx)
	})
}

// Swap replaces the document (or clears it when data is nil) and returns
// the previous one, nil if nothing was stored.
func (m *Manager) Swap(ctx context.Context, data []byte) ([]byte, error) {
	var prev []byte
	err := m.WithLock(ctx, func(ctx context.Context) error {
		var err error
		prev, err = m.loadOrNil(ctx)
		if err != nil {
			return err
		}
		if data == nil {
			return m.store.Clear(ctx)
		}
		return m.store.Save(ctx, data)
	})
	return prev, err
}

// Update runs a read-modify-write cycle under the lock.
// fn receives the current document (nil when empty) and returns the next one;
// returning the input slice unchanged skips the write.
func (m *Manager) Update(ctx context.Context, fn func(current []byte) ([]byte, error)) (prev, next []byte, err error) {
	err = m.WithLock(ctx, func(ctx context.Context) error {
		prev, err = m.loadOrNil(ctx)
		if err != nil {
			return err
		}
		next, err = fn(prev)
		if err != nil {
			return err
		}
		if sameBacking(prev, next) {
			return nil
		}
		return m.store.Save(ctx, next)
	})
	return prev, next, err
}

// Store returns the underlying board store.
func (m *Manager) Store() ports.BoardStore {
	return m.store
}

// WithLock executes a function while holding the board lock.
func (m *Manager) WithLock(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, m.lockKey, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", m.lockKey,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) loadOrNil(ctx context.Context) ([]byte, error) {
	data, err := m.store.Load(ctx)
	if errors.Is(err, domain.ErrBoardNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return data, nil
}

func sameBacking(a, b []byte) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
