package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/kanban/pkg/adapters/sqlite"
	"github.com/aretw0/kanban/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.BoardStore = (*sqlite.Store)(nil)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunBoardStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	first, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, []byte(`{"projects":[],"rev":7}`)))
	require.NoError(t, first.Close())

	second, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	data, err := second.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"projects":[],"rev":7}`, string(data))
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	ports.RunBoardStoreContract(t, store)
}
