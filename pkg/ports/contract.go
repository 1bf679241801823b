package ports

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/kanban/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBoardStoreContract runs a suite of tests to verify that a BoardStore
// implementation adheres to the defined interface contract.
// The store must start empty.
func RunBoardStoreContract(t *testing.T, store BoardStore) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrBoardNotFound)
	})

	t.Run("Save and Load", func(t *testing.T) {
		doc := []byte(`{"projects":[{"id":"p1","title":"Contract"}],"activeProjectId":"p1","cards":{},"cardVersions":{}}`)
		require.NoError(t, store.Save(ctx, doc), "Save should not return error")

		loaded, err := store.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		assert.JSONEq(t, string(doc), string(loaded))
	})

	t.Run("Last Save Wins", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, []byte(`{"projects":[],"rev":1}`)))
		require.NoError(t, store.Save(ctx, []byte(`{"projects":[],"rev":2}`)))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		var doc struct {
			Rev int `json:"rev"`
		}
		require.NoError(t, json.Unmarshal(loaded, &doc))
		assert.Equal(t, 2, doc.Rev)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, []byte(`{"projects":[]}`)))
		require.NoError(t, store.Clear(ctx), "Clear should not return error")

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrBoardNotFound, "Load after Clear should return ErrBoardNotFound")

		assert.NoError(t, store.Clear(ctx), "clearing an empty store")
	})
}
