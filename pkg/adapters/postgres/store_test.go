package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/aretw0/kanban/pkg/adapters/postgres"
	"github.com/aretw0/kanban/pkg/ports"
	"github.com/stretchr/testify/require"
)

var _ ports.BoardStore = (*postgres.Store)(nil)

func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("KANBAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("KANBAN_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Clear(ctx))

	ports.RunBoardStoreContract(t, store)
}

func TestPostgresStore_BadDSN(t *testing.T) {
	_, err := postgres.Connect(context.Background(), "postgres://%zz")
	require.Error(t, err)
}
