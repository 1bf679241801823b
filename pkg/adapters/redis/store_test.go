package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/kanban/pkg/adapters/redis"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newMiniredis(t)
	ports.RunBoardStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_PrefixAndTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"), redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`{"projects":[]}`)))
	assert.True(t, mr.Exists("test:board"))
	assert.Equal(t, time.Minute, mr.TTL("test:board"))

	updated, err := store.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), updated, 5*time.Second)

	mr.FastForward(2 * time.Minute)
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrBoardNotFound, "expired board reads as empty")
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client)
	mr.Close()

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBoardNotFound)
}
