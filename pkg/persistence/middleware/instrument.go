package middleware

import (
	"context"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/ports"
)

type instrumentedStore struct {
	next  ports.BoardStore
	hooks domain.LifecycleHooks
	now   func() time.Time
}

// NewInstrumentationMiddleware reports every store round-trip to hooks.OnStore.
func NewInstrumentationMiddleware(hooks domain.LifecycleHooks) Middleware {
	return func(next ports.BoardStore) ports.BoardStore {
		if hooks.OnStore == nil {
			return next
		}
		return &instrumentedStore{next: next, hooks: hooks, now: time.Now}
	}
}

func (s *instrumentedStore) Load(ctx context.Context) ([]byte, error) {
	start := s.now()
	data, err := s.next.Load(ctx)
	s.emit(ctx, domain.StoreLoad, start, err)
	return data, err
}

func (s *instrumentedStore) Save(ctx context.Context, data []byte) error {
	start := s.now()
	err := s.next.Save(ctx, data)
	s.emit(ctx, domain.StoreSave, start, err)
	return err
}

func (s *instrumentedStore) Clear(ctx context.Context) error {
	start := s.now()
	err := s.next.Clear(ctx)
	s.emit(ctx, domain.StoreClear, start, err)
	return err
}

func (s *instrumentedStore) emit(ctx context.Context, op domain.StoreOp, start time.Time, err error) {
	s.hooks.OnStore(ctx, &domain.StoreEvent{
		Timestamp: start,
		Op:        op,
		Duration:  s.now().Sub(start),
		Err:       err,
	})
}
