package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store and locker write.
const DefaultPrefix = "kanban:"

// Store implements ports.BoardStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the stored board.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key() string {
	return s.prefix + "board"
}

func (s *Store) updatedKey() string {
	return s.prefix + "board:updated_at"
}

// Save persists the document together with its write time.
func (s *Store) Save(ctx context.Context, data []byte) error {
	pipe := s.client.TxPipeline()
	// 0 means no expiration.
	pipe.Set(ctx, s.key(), data, s.ttl)
	pipe.Set(ctx, s.updatedKey(), time.Now().UTC().Format(time.RFC3339Nano), s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the document from Redis.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// UpdatedAt reports when the document was last saved.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	val, err := s.client.Get(ctx, s.updatedKey()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return time.Time{}, domain.ErrBoardNotFound
		}
		return time.Time{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return time.Parse(time.RFC3339Nano, val)
}

// Clear removes the document.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(), s.updatedKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear redis board: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
