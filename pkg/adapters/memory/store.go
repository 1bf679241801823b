package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aretw0/kanban/pkg/domain"
)

// Store implements ports.BoardStore in memory.
// Safe for concurrent use.
type Store struct {
	data []byte
	mu   sync.RWMutex
}

// NewStore creates a new, empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Save keeps a private copy of the document.
func (s *Store) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = bytes.Clone(data)
	if s.data == nil {
		s.data = []byte{}
	}
	return nil
}

// Load returns a copy so callers can't mutate the stored document.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, domain.ErrBoardNotFound
	}
	return bytes.Clone(s.data), nil
}

// Clear forgets the document.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
