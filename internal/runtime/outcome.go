package runtime

import "github.com/aretw0/kanban/pkg/domain"

// Apply runs Transition and classifies the result for lifecycle hooks.
// Rejection is read from the board structure, not from the error field,
// which may still hold a message from an earlier rejection.
func (e *Engine) Apply(state *domain.BoardState, action domain.Action) (*domain.BoardState, domain.TransitionOutcome) {
	next := e.Transition(state, action)
	if action == nil {
		return next, domain.OutcomeNoop
	}
	switch a := action.(type) {
	case domain.DeleteLane:
		if _, _, ok := state.LaneLocation(a.ID); ok {
			if _, _, still := next.LaneLocation(a.ID); still {
				return next, domain.OutcomeRejected
			}
		}
	case domain.DeleteProject:
		if state.ProjectIndex(a.ID) >= 0 && len(next.Projects) == len(state.Projects) {
			return next, domain.OutcomeRejected
		}
	}
	if next == state {
		return next, domain.OutcomeNoop
	}
	return next, domain.OutcomeApplied
}
