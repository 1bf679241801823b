package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/config"
	"github.com/aretw0/kanban/internal/runtime"
	"github.com/aretw0/kanban/pkg/adapters/file"
	"github.com/aretw0/kanban/pkg/adapters/memory"
	"github.com/aretw0/kanban/pkg/adapters/postgres"
	"github.com/aretw0/kanban/pkg/adapters/redis"
	"github.com/aretw0/kanban/pkg/adapters/remote"
	"github.com/aretw0/kanban/pkg/adapters/sqlite"
	"github.com/aretw0/kanban/pkg/observability"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/aretw0/kanban/pkg/ports"
	"github.com/aretw0/kanban/pkg/session"
)

// backend is an opened store plus whatever it needs released on exit.
type backend struct {
	store  ports.BoardStore
	locker ports.DistributedLocker
	close  func() error
}

// openBackend builds the configured store, wrapped in encryption when a key is set.
func openBackend(ctx context.Context, c config.Config) (*backend, error) {
	b := &backend{close: func() error { return nil }}
	switch c.Store.Backend {
	case config.BackendMemory:
		b.store = memory.NewStore()
	case config.BackendFile:
		b.store = file.New(c.Store.File.Path)
	case config.BackendRedis:
		rc := c.Store.Redis
		s := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL.Duration()))
		b.store = s
		if rc.Lock {
			b.locker = redis.NewLocker(s.Client(), rc.Prefix)
		}
		b.close = s.Client().Close
	case config.BackendSQLite:
		if err := ensureDir(c.Store.SQLite.Path); err != nil {
			return nil, err
		}
		s, err := sqlite.Open(ctx, c.Store.SQLite.Path)
		if err != nil {
			return nil, err
		}
		b.store, b.close = s, s.Close
	case config.BackendPostgres:
		s, err := postgres.Connect(ctx, c.Store.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		b.store, b.close = s, s.Close
	case config.BackendRemote:
		b.store = remote.New(c.Store.Remote.URL, remote.WithTimeout(c.Store.Remote.Timeout.Duration()))
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Security.EncryptionKey != "" {
		keys, err := c.Security.Keys()
		if err != nil {
			_ = b.close()
			return nil, err
		}
		b.store = middleware.Chain(b.store, middleware.NewEncryptionMiddleware(keys))
	}
	return b, nil
}

// sessions wraps the backend in a session manager, sharing the backend's locker.
func (b *backend) sessions(log *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(log)}
	if b.locker != nil {
		opts = append(opts, session.WithLocker(b.locker))
	}
	return session.NewManager(b.store, opts...)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// openBoard loads the board from the configured store. A board that could not
// be read is refused so a one-shot command never overwrites it with a fresh one.
func openBoard(ctx context.Context, c config.Config, extra ...kanban.Option) (*kanban.Board, func(), error) {
	be, err := openBackend(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	ids, err := runtime.NewIDGenerator(c.Board.IDScheme)
	if err != nil {
		_ = be.close()
		return nil, nil, err
	}
	opts := []kanban.Option{
		kanban.WithStore(be.store),
		kanban.WithLogger(logger),
		kanban.WithLifecycleHooks(observability.LogHooks(logger)),
		kanban.WithIDGenerator(ids),
		kanban.WithLoadTimeout(c.Board.LoadTimeout.Duration()),
		// One-shot commands save synchronously.
		kanban.WithDebounce(0),
	}
	board := kanban.New(append(opts, extra...)...)
	if err := board.Load(ctx); err != nil {
		_ = be.close()
		if errors.Is(err, kanban.ErrLoadTimeout) {
			return nil, nil, fmt.Errorf("store %s did not answer: %w", c.Store.Backend, err)
		}
		return nil, nil, fmt.Errorf("load board: %w", err)
	}
	release := func() {
		if err := board.Close(context.Background()); err != nil {
			logger.Error("Failed to save board", "err", err)
		}
		if err := be.close(); err != nil {
			logger.Warn("Failed to close store", "err", err)
		}
	}
	return board, release, nil
}
