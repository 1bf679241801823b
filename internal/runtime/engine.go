package runtime

import (
	"time"

	"github.com/aretw0/kanban/pkg/domain"
)

// Clock supplies the current time to the engine.
type Clock func() time.Time

// Engine is the board state transition function.
// It holds no board state of its own: every call maps (state, action) to a new state.
type Engine struct {
	ids IDGenerator
	now Clock
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithIDGenerator injects the id source used for new cards, lanes, projects and versions.
func WithIDGenerator(ids IDGenerator) EngineOption {
	return func(e *Engine) {
		if ids != nil {
			e.ids = ids
		}
	}
}

// WithClock injects the time source used for timestamps.
func WithClock(now Clock) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine. Defaults: UUID ids, wall clock.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		ids: NewUUIDGenerator(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewID draws a fresh id from the engine's generator.
func (e *Engine) NewID() string {
	return e.ids.NewID()
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// InitialState builds a freshly initialized board: one project with the
// default lanes, selected as the active project.
func (e *Engine) InitialState() *domain.BoardState {
	now := e.now()
	p := domain.NewProject(e.ids.NewID(), domain.DefaultProjectTitle, nil, e.ids.NewID, now)
	return &domain.BoardState{
		Projects:        []domain.Project{p},
		ActiveProjectID: domain.Ptr(p.ID),
		Cards:           map[string]domain.Card{},
		CardVersions:    map[string][]domain.CardVersion{},
	}
}

// Transition applies action to state and returns the resulting state.
//
// It is total: it never panics on well-formed input and never returns an error.
// When an action's preconditions fail (unknown card, lane or project) the very
// same state pointer is returned, so callers detect no-ops by identity.
// The input state is never mutated; changed subtrees are copied.
func (e *Engine) Transition(state *domain.BoardState, action domain.Action) *domain.BoardState {
	if action == nil {
		return state
	}
	action = domain.Canonical(action)

	if a, ok := action.(domain.LoadState); ok {
		return e.loadState(state, a)
	}
	if state == nil {
		return state
	}

	switch a := action.(type) {
	case domain.AddCard:
		return e.addCard(state, a)
	case domain.UpdateCard:
		return e.updateCard(state, a)
	case domain.DeleteCard:
		return e.deleteCard(state, a)
	case domain.RestoreCard:
		return e.restoreCard(state, a)
	case domain.MoveCard:
		return e.moveCard(state, a)
	case domain.ReorderCards:
		return e.reorderCards(state, a)
	case domain.UndoCard:
		return e.undoCard(state, a)
	case domain.AddLane:
		return e.addLane(state, a)
	case domain.UpdateLane:
		return e.updateLane(state, a)
	case domain.DeleteLane:
		return e.deleteLane(state, a)
	case domain.ReorderLanes:
		return e.reorderLanes(state, a)
	case domain.AddProject:
		return e.addProject(state, a)
	case domain.UpdateProject:
		return e.updateProject(state, a)
	case domain.DeleteProject:
		return e.deleteProject(state, a)
	case domain.SetActiveProject:
		return e.setActiveProject(state, a)
	case domain.SetError:
		return e.setError(state, a)
	default:
		return state
	}
}

func (e *Engine) loadState(state *domain.BoardState, a domain.LoadState) *domain.BoardState {
	if a.State == nil {
		return state
	}
	d := newDraft(a.State)
	d.ownCards()
	d.ownVersions()
	d.ownProjects()
	for i := range d.s.Projects {
		d.ownLanes(i)
	}
	d.s.IsLoading = false
	return d.s
}

func (e *Engine) setActiveProject(state *domain.BoardState, a domain.SetActiveProject) *domain.BoardState {
	current := ""
	if state.ActiveProjectID != nil {
		current = *state.ActiveProjectID
	}
	if current == a.ID {
		return state
	}
	d := newDraft(state)
	if a.ID == "" {
		d.s.ActiveProjectID = nil
	} else {
		d.s.ActiveProjectID = domain.Ptr(a.ID)
	}
	return d.s
}

func (e *Engine) setError(state *domain.BoardState, a domain.SetError) *domain.BoardState {
	d := newDraft(state)
	if a.Message == nil {
		d.s.Error = nil
	} else {
		d.s.Error = domain.Ptr(*a.Message)
	}
	return d.s
}
