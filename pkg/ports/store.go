package ports

import (
	"context"
)

// BoardStore persists the whole board as one opaque JSON document.
// Stores never interpret the document: older schemas are upgraded by the
// caller after loading.
type BoardStore interface {
	// Load returns the stored document.
	// Returns domain.ErrBoardNotFound if nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document. The last completed save wins.
	Save(ctx context.Context, data []byte) error

	// Clear removes the stored document. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
