package kanban_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/runtime"
	"github.com/aretw0/kanban/pkg/adapters/memory"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records saves on top of an in-memory store.
type countingStore struct {
	*memory.Store
	saves atomic.Int32
	fail  atomic.Bool
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewStore()}
}

func (s *countingStore) Save(ctx context.Context, data []byte) error {
	if s.fail.Load() {
		return errors.New("store unavailable")
	}
	s.saves.Add(1)
	return s.Store.Save(ctx, data)
}

// blockingStore never answers Load until released.
type blockingStore struct {
	*memory.Store
	release chan struct{}
}

func (s *blockingStore) Load(ctx context.Context) ([]byte, error) {
	<-s.release
	return nil, domain.ErrBoardNotFound
}

func newBoard(t *testing.T, opts ...kanban.Option) *kanban.Board {
	t.Helper()
	opts = append([]kanban.Option{
		kanban.WithIDGenerator(runtime.NewSequenceGenerator("id")),
		kanban.WithDebounce(0),
	}, opts...)
	b := kanban.New(opts...)
	require.NoError(t, b.Load(context.Background()))
	return b
}

func firstLane(t *testing.T, b *kanban.Board) string {
	t.Helper()
	p, ok := b.ActiveProject()
	require.True(t, ok)
	return p.SortedLanes()[0].ID
}

func TestBoard_LoadEmptyStoreStartsFresh(t *testing.T) {
	b := newBoard(t)

	assert.True(t, b.Loaded())
	assert.False(t, b.State().IsLoading)
	p, ok := b.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, domain.DefaultProjectTitle, p.Title)
	assert.Len(t, p.Lanes, 3)
}

func TestBoard_LoadLegacyDocument(t *testing.T) {
	store := memory.NewStore()
	legacy := `{
		"project": {"id": "legacy", "name": "Old Board", "lanes": [{"id": "l1", "title": "Todo", "order": 0, "cardIds": ["c1"]}]},
		"cards": {"c1": {"title": "Migrated", "laneId": "l1", "priority": "HIGH"}}
	}`
	require.NoError(t, store.Save(context.Background(), []byte(legacy)))

	b := newBoard(t, kanban.WithStore(store))

	p, ok := b.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, "legacy", p.ID)
	assert.Equal(t, "Old Board", p.Title)
	cards := b.CardsByLane("l1")
	require.Len(t, cards, 1)
	assert.Equal(t, "legacy", cards[0].ProjectID)
	assert.Equal(t, domain.PriorityHigh, cards[0].Priority)
}

func TestBoard_LoadTimeoutFallsBack(t *testing.T) {
	store := &blockingStore{Store: memory.NewStore(), release: make(chan struct{})}
	defer close(store.release)

	b := kanban.New(kanban.WithStore(store), kanban.WithLoadTimeout(20*time.Millisecond))
	err := b.Load(context.Background())

	assert.ErrorIs(t, err, kanban.ErrLoadTimeout)
	assert.True(t, b.Loaded())
	_, ok := b.ActiveProject()
	assert.True(t, ok)
}

func TestBoard_LoadStoreErrorFallsBack(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), []byte(`not json`)))

	b := kanban.New(kanban.WithStore(store))
	err := b.Load(context.Background())

	assert.Error(t, err)
	assert.True(t, b.Loaded())
	assert.Len(t, b.Projects(), 1)
}

func TestBoard_VerbsAndQueries(t *testing.T) {
	b := newBoard(t)
	lane := firstLane(t, b)

	id, ok := b.AddCard(domain.CardInput{LaneID: lane, Title: "First"})
	require.True(t, ok)
	assert.False(t, b.CanUndo(id))

	title := "Renamed"
	assert.True(t, b.UpdateCard(id, domain.CardPatch{Title: &title}))
	assert.True(t, b.CanUndo(id))
	assert.Len(t, b.History(id), 1)

	assert.True(t, b.UndoCard(id))
	c, _ := b.Card(id)
	assert.Equal(t, "First", c.Title)
	assert.False(t, b.UndoCard(id), "empty history is a no-op")

	assert.True(t, b.DeleteCard(id))
	assert.Empty(t, b.CardsByLane(lane))
	p, _ := b.ActiveProject()
	assert.Len(t, b.DeletedCards(p.ID), 1)
	assert.True(t, b.RestoreCard(id))
	assert.Len(t, b.CardsByLane(lane), 1)

	assert.False(t, b.MoveCard("missing", lane, 0))
	assert.False(t, b.DeleteLane("missing"))
}

func TestBoard_CardsByLaneOnlyActiveProject(t *testing.T) {
	b := newBoard(t)
	lane := firstLane(t, b)
	_, ok := b.AddCard(domain.CardInput{LaneID: lane, Title: "x"})
	require.True(t, ok)

	_, ok = b.AddProject("Second", nil)
	require.True(t, ok)
	assert.Empty(t, b.CardsByLane(lane), "lane belongs to an inactive project")
}

func TestBoard_GuardedDeletionSetsError(t *testing.T) {
	b := newBoard(t)
	p, _ := b.ActiveProject()

	assert.True(t, b.DeleteProject(p.ID))
	msg, ok := b.Error()
	require.True(t, ok)
	assert.Equal(t, domain.MsgLastProject, msg)
	assert.Len(t, b.Projects(), 1)

	assert.True(t, b.ClearError())
	assert.False(t, b.ClearError())
}

func TestBoard_PersistsEveryChangeWithoutDebounce(t *testing.T) {
	store := newCountingStore()
	b := newBoard(t, kanban.WithStore(store))
	lane := firstLane(t, b)

	b.AddCard(domain.CardInput{LaneID: lane, Title: "a"})
	b.AddCard(domain.CardInput{LaneID: lane, Title: "b"})
	b.MoveCard("missing", lane, 0)

	assert.Equal(t, int32(2), store.saves.Load())

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	var saved domain.BoardState
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Len(t, saved.Cards, 2)
}

func TestBoard_DebounceCoalescesSaves(t *testing.T) {
	store := newCountingStore()
	b := newBoard(t, kanban.WithStore(store), kanban.WithDebounce(30*time.Millisecond))
	lane := firstLane(t, b)

	for i := 0; i < 5; i++ {
		b.AddCard(domain.CardInput{LaneID: lane, Title: "card"})
	}
	assert.Equal(t, int32(0), store.saves.Load())

	require.Eventually(t, func() bool { return store.saves.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), store.saves.Load())
}

func TestBoard_FlushAndClose(t *testing.T) {
	store := newCountingStore()
	b := newBoard(t, kanban.WithStore(store), kanban.WithDebounce(time.Hour))
	lane := firstLane(t, b)
	ctx := context.Background()

	require.NoError(t, b.Flush(ctx))
	assert.Equal(t, int32(0), store.saves.Load(), "nothing dirty")

	b.AddCard(domain.CardInput{LaneID: lane, Title: "a"})
	require.NoError(t, b.Flush(ctx))
	assert.Equal(t, int32(1), store.saves.Load())

	b.AddCard(domain.CardInput{LaneID: lane, Title: "b"})
	require.NoError(t, b.Close(ctx))
	assert.Equal(t, int32(2), store.saves.Load())

	b.AddCard(domain.CardInput{LaneID: lane, Title: "after close"})
	require.NoError(t, b.Flush(ctx))
	assert.Equal(t, int32(2), store.saves.Load())
}

func TestBoard_FlushReportsStoreErrors(t *testing.T) {
	store := newCountingStore()
	b := newBoard(t, kanban.WithStore(store), kanban.WithDebounce(time.Hour))
	lane := firstLane(t, b)
	ctx := context.Background()

	b.AddCard(domain.CardInput{LaneID: lane, Title: "a"})
	store.fail.Store(true)
	assert.Error(t, b.Flush(ctx))

	store.fail.Store(false)
	require.NoError(t, b.Flush(ctx), "failed flush leaves the board dirty")
	assert.Equal(t, int32(1), store.saves.Load())
}

func TestBoard_FlushBeforeLoad(t *testing.T) {
	b := kanban.New()
	assert.ErrorIs(t, b.Flush(context.Background()), domain.ErrNotLoaded)
	assert.NoError(t, b.Close(context.Background()))
}

func TestBoard_NoSaveBeforeLoad(t *testing.T) {
	store := newCountingStore()
	b := kanban.New(kanban.WithStore(store), kanban.WithDebounce(0))

	b.Dispatch(domain.SetError{Message: domain.Ptr("boom")})
	assert.Equal(t, int32(0), store.saves.Load())
}

func TestBoard_Hooks(t *testing.T) {
	var mu sync.Mutex
	var transitions []domain.TransitionOutcome
	var ops []domain.StoreOp
	hooks := domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, e.Outcome)
		},
		OnStore: func(_ context.Context, e *domain.StoreEvent) {
			mu.Lock()
			defer mu.Unlock()
			ops = append(ops, e.Op)
		},
	}
	b := newBoard(t, kanban.WithLifecycleHooks(hooks))
	lane := firstLane(t, b)
	p, _ := b.ActiveProject()

	b.AddCard(domain.CardInput{LaneID: lane, Title: "a"})
	b.UndoCard("missing")
	b.DeleteProject(p.ID)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []domain.TransitionOutcome{
		domain.OutcomeApplied,
		domain.OutcomeApplied,
		domain.OutcomeNoop,
		domain.OutcomeRejected,
	}, transitions, "LOAD_STATE is reported too")
	assert.Equal(t, []domain.StoreOp{domain.StoreLoad, domain.StoreSave, domain.StoreSave}, ops)
}

func TestBoard_OnChange(t *testing.T) {
	var seen atomic.Int32
	b := newBoard(t, kanban.WithOnChange(func(*domain.BoardState) { seen.Add(1) }))
	lane := firstLane(t, b)

	b.AddCard(domain.CardInput{LaneID: lane, Title: "a"})
	b.UndoCard("missing")
	assert.Equal(t, int32(2), seen.Load(), "load and one applied change")
}
