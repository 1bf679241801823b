package kanban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/kanban/internal/runtime"
	"github.com/aretw0/kanban/pkg/adapters/memory"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/aretw0/kanban/pkg/normalize"
	"github.com/aretw0/kanban/pkg/persistence/middleware"
	"github.com/aretw0/kanban/pkg/ports"
)

const (
	// DefaultDebounce is the quiet period before a change is persisted.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultLoadTimeout bounds the initial load.
	DefaultLoadTimeout = 4 * time.Second
)

// ErrLoadTimeout is returned by Load when the store did not answer in time.
var ErrLoadTimeout = errors.New("board load timed out")

// Board owns one live BoardState. Every verb dispatches an action through the
// engine; once loaded, every change schedules a debounced save of the whole state.
type Board struct {
	mu       sync.Mutex
	state    *domain.BoardState
	loaded   bool
	dirty    bool
	closed   bool
	timer    *time.Timer
	seq      uint64
	saveMu   sync.Mutex
	savedSeq uint64
	inflight sync.WaitGroup

	engine      *runtime.Engine
	store       ports.BoardStore
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	debounce    time.Duration
	loadTimeout time.Duration
	engineOpts  []runtime.EngineOption
	onChange    func(*domain.BoardState)
}

// Option defines a functional option for configuring the Board.
type Option func(*Board)

// WithStore sets the persistence backend (default: in-memory).
func WithStore(store ports.BoardStore) Option {
	return func(b *Board) {
		b.store = store
	}
}

// WithLifecycleHooks registers observability hooks.
// OnStore hooks are attached to the store through the instrumentation middleware.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Board) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the board.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) {
		b.logger = logger
	}
}

// WithDebounce sets the save quiet period. Zero saves synchronously on every change.
func WithDebounce(d time.Duration) Option {
	return func(b *Board) {
		b.debounce = d
	}
}

// WithLoadTimeout bounds Load; on expiry the board starts fresh.
func WithLoadTimeout(d time.Duration) Option {
	return func(b *Board) {
		b.loadTimeout = d
	}
}

// WithIDGenerator injects the id source used for new entities.
func WithIDGenerator(ids runtime.IDGenerator) Option {
	return func(b *Board) {
		b.engineOpts = append(b.engineOpts, runtime.WithIDGenerator(ids))
	}
}

// WithClock injects the time source used for timestamps.
func WithClock(now runtime.Clock) Option {
	return func(b *Board) {
		b.engineOpts = append(b.engineOpts, runtime.WithClock(now))
	}
}

// WithOnChange registers a callback invoked after every applied transition.
// It runs with the board lock released and must not block.
func WithOnChange(fn func(*domain.BoardState)) Option {
	return func(b *Board) {
		b.onChange = fn
	}
}

// New creates a Board in the loading state. Call Load before using it.
func New(opts ...Option) *Board {
	b := &Board{
		debounce:    DefaultDebounce,
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if b.store == nil {
		b.store = memory.NewStore()
	}
	b.store = middleware.NewInstrumentationMiddleware(b.hooks)(b.store)
	b.engine = runtime.NewEngine(b.engineOpts...)
	b.state = domain.NewLoadingState()
	return b
}

type loadResult struct {
	data []byte
	err  error
}

// Load reads the persisted board, normalizes it and dispatches LOAD_STATE.
//
// It always leaves the board loaded: an empty store, a store error, an
// undecodable document or a timeout all fall back to a fresh board. The
// returned error reports the fallback cause (nil when the store was simply
// empty) so callers can avoid overwriting data they failed to read.
func (b *Board) Load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, b.loadTimeout)
	defer cancel()

	// Buffered so a store that ignores ctx cannot leak the goroutine on timeout.
	results := make(chan loadResult, 1)
	go func() {
		data, err := b.store.Load(loadCtx)
		results <- loadResult{data: data, err: err}
	}()

	var state *domain.BoardState
	var cause error
	select {
	case res := <-results:
		state, cause = b.decode(res)
	case <-loadCtx.Done():
		cause = ErrLoadTimeout
		if ctx.Err() != nil {
			cause = ctx.Err()
		}
		b.logger.Warn("board load did not complete, starting fresh", "timeout", b.loadTimeout, "err", cause)
	}
	if state == nil {
		state = b.engine.InitialState()
	}

	load := domain.LoadState{State: state}
	b.mu.Lock()
	next, outcome := b.engine.Apply(b.state, load)
	b.state = next
	b.seq++
	b.loaded = true
	b.dirty = false
	b.mu.Unlock()

	b.emit(ctx, load, outcome)
	b.notify(next)
	return cause
}

func (b *Board) decode(res loadResult) (*domain.BoardState, error) {
	if errors.Is(res.err, domain.ErrBoardNotFound) {
		b.logger.Debug("no saved board, starting fresh")
		return nil, nil
	}
	if res.err != nil {
		b.logger.Warn("failed to load board, starting fresh", "err", res.err)
		return nil, fmt.Errorf("load board: %w", res.err)
	}
	state, err := normalize.Decode(res.data,
		normalize.WithIDGenerator(b.engine.NewID),
		normalize.WithClock(b.engine.Now),
	)
	if err != nil {
		b.logger.Warn("saved board is not valid JSON, starting fresh", "err", err)
		return nil, err
	}
	if len(state.Projects) == 0 {
		b.logger.Warn("saved board has no projects, starting fresh")
		return nil, nil
	}
	return state, nil
}

// Dispatch applies one action and reports whether the state changed.
func (b *Board) Dispatch(action domain.Action) bool {
	b.mu.Lock()
	prev := b.state
	next, outcome := b.engine.Apply(prev, action)
	b.state = next
	changed := next != prev
	var saveNow *snapshot
	if changed {
		b.seq++
		if b.loaded && !b.closed {
			b.dirty = true
			saveNow = b.scheduleLocked()
		}
	}
	b.mu.Unlock()

	b.emit(context.Background(), action, outcome)
	if saveNow != nil {
		b.persist(context.Background(), *saveNow)
	}
	if changed {
		b.notify(next)
	}
	return changed
}

func (b *Board) emit(ctx context.Context, action domain.Action, outcome domain.TransitionOutcome) {
	if action == nil || b.hooks.OnTransition == nil {
		return
	}
	b.hooks.OnTransition(ctx, &domain.TransitionEvent{
		Timestamp: b.engine.Now(),
		Action:    action.Kind(),
		Outcome:   outcome,
	})
}

func (b *Board) notify(state *domain.BoardState) {
	if b.onChange != nil {
		b.onChange(state)
	}
}

// snapshot is a state paired with its change sequence number.
type snapshot struct {
	state *domain.BoardState
	seq   uint64
}

func (b *Board) snapshotLocked() snapshot {
	b.dirty = false
	return snapshot{state: b.state, seq: b.seq}
}

// scheduleLocked (re)arms the debounce timer, or returns the snapshot to save
// right away when debouncing is disabled. Caller holds b.mu.
func (b *Board) scheduleLocked() *snapshot {
	if b.debounce <= 0 {
		snap := b.snapshotLocked()
		return &snap
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.flushTimer)
	return nil
}

func (b *Board) flushTimer() {
	b.mu.Lock()
	if !b.dirty || b.closed {
		b.mu.Unlock()
		return
	}
	snap := b.snapshotLocked()
	b.inflight.Add(1)
	b.mu.Unlock()

	defer b.inflight.Done()
	b.persist(context.Background(), snap)
}

// persist saves a snapshot unless a newer one was already saved.
// Background saves only log failures.
func (b *Board) persist(ctx context.Context, snap snapshot) error {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	if snap.seq < b.savedSeq {
		return nil
	}

	data, err := json.Marshal(snap.state)
	if err != nil {
		b.logger.Warn("failed to marshal board", "err", err)
		return fmt.Errorf("marshal board: %w", err)
	}
	if err := b.store.Save(ctx, data); err != nil {
		b.logger.Warn("failed to save board", "err", err)
		return fmt.Errorf("save board: %w", err)
	}
	b.savedSeq = snap.seq
	b.logger.Debug("board saved", "bytes", len(data), "seq", snap.seq)
	return nil
}

// Flush cancels any pending debounce and saves the current state now.
// Unlike background saves, it returns the store error.
func (b *Board) Flush(ctx context.Context) error {
	b.mu.Lock()
	if !b.loaded {
		b.mu.Unlock()
		return domain.ErrNotLoaded
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	dirty := b.dirty
	snap := b.snapshotLocked()
	b.mu.Unlock()

	b.inflight.Wait()
	if !dirty {
		return nil
	}
	if err := b.persist(ctx, snap); err != nil {
		b.mu.Lock()
		b.dirty = true
		b.mu.Unlock()
		return err
	}
	return nil
}

// Close flushes pending changes and stops scheduling saves.
func (b *Board) Close(ctx context.Context) error {
	err := b.Flush(ctx)
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	if errors.Is(err, domain.ErrNotLoaded) {
		return nil
	}
	return err
}

// Engine exposes the transition engine, e.g. to mint ids.
func (b *Board) Engine() *runtime.Engine {
	return b.engine
}

// Store returns the (instrumented) board store.
func (b *Board) Store() ports.BoardStore {
	return b.store
}

// State returns the current state. It is shared and must be treated as read-only.
func (b *Board) State() *domain.BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Loaded reports whether Load has completed.
func (b *Board) Loaded() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loaded
}
