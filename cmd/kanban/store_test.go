package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/kanban/internal/config"
	"github.com/aretw0/kanban/pkg/adapters/memory"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	c, err := config.Load("")
	require.NoError(t, err)
	c.Store.Backend = backend
	c.Store.File.Path = filepath.Join(t.TempDir(), "board.json")
	c.Store.SQLite.Path = filepath.Join(t.TempDir(), "nested", "board.db")
	return c
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{config.BackendMemory, config.BackendFile, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			be, err := openBackend(ctx, testConfig(t, backend))
			require.NoError(t, err)
			defer be.close()

			_, err = be.store.Load(ctx)
			assert.ErrorIs(t, err, domain.ErrBoardNotFound)

			require.NoError(t, be.store.Save(ctx, []byte(`{"projects":[]}`)))
			got, err := be.store.Load(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, `{"projects":[]}`, string(got))
		})
	}
}

func TestOpenBackend_Encrypted(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t, config.BackendMemory)
	c.Security.EncryptionKey = testKey

	be, err := openBackend(ctx, c)
	require.NoError(t, err)
	require.NoError(t, be.store.Save(ctx, []byte(`{"projects":[]}`)))

	got, err := be.store.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"projects":[]}`, string(got))
}

func TestOpenBackend_Unknown(t *testing.T) {
	c := testConfig(t, config.BackendMemory)
	c.Store.Backend = "etcd"
	_, err := openBackend(context.Background(), c)
	assert.Error(t, err)
}

func TestEncryptedStore_RejectsPlaintext(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t, config.BackendMemory)
	c.Security.EncryptionKey = testKey
	keys, err := c.Security.Keys()
	require.NoError(t, err)

	inner := memory.NewStore()
	require.NoError(t, inner.Save(ctx, []byte(`{"projects":[]}`)))
	store := middleware.Chain(inner, middleware.NewEncryptionMiddleware(keys))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)
}

func TestResolve(t *testing.T) {
	c := testConfig(t, config.BackendMemory)
	board, release, err := openBoard(context.Background(), c)
	require.NoError(t, err)
	defer release()

	lane, err := resolveLane(board, "DOING")
	require.NoError(t, err)
	assert.Equal(t, "Doing", lane.Title)

	_, err = resolveLane(board, "")
	assert.Error(t, err)

	id, ok := board.AddCard(domain.CardInput{LaneID: lane.ID, Title: "x"})
	require.True(t, ok)
	card, err := resolveCard(board, id[:6])
	require.NoError(t, err)
	assert.Equal(t, id, card.ID)

	p, err := resolveProject(board, "my board")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectTitle, p.Title)
}
