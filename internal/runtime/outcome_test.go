package runtime_test

import (
	"testing"

	"github.com/aretw0/kanban/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestApply_Outcomes(t *testing.T) {
	e := newTestEngine()
	s := e.InitialState()
	lane := s.Projects[0].Lanes[0].ID

	next, outcome := e.Apply(s, domain.AddCard{CardInput: domain.CardInput{LaneID: lane, Title: "x"}})
	assert.Equal(t, domain.OutcomeApplied, outcome)
	assert.NotSame(t, s, next)

	same, outcome := e.Apply(next, domain.MoveCard{ID: "missing", ToLaneID: lane})
	assert.Equal(t, domain.OutcomeNoop, outcome)
	assert.Same(t, next, same)

	_, outcome = e.Apply(next, domain.DeleteProject{ID: s.Projects[0].ID})
	assert.Equal(t, domain.OutcomeRejected, outcome)

	_, outcome = e.Apply(next, nil)
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestApply_StaleErrorDoesNotMarkDeleteRejected(t *testing.T) {
	e := newTestEngine()
	s := boardWithLanes(e, "a", "b")
	s = e.Transition(s, domain.SetError{Message: domain.Ptr(domain.MsgLastLane)})

	next, outcome := e.Apply(s, domain.DeleteLane{ID: "b"})
	assert.Equal(t, domain.OutcomeApplied, outcome)
	assert.Len(t, next.Projects[0].Lanes, 1)

	_, outcome = e.Apply(next, domain.DeleteLane{ID: "a"})
	assert.Equal(t, domain.OutcomeRejected, outcome, "last lane stays even though the message is unchanged")

	_, outcome = e.Apply(next, domain.DeleteLane{ID: "missing"})
	assert.Equal(t, domain.OutcomeNoop, outcome)
}

func TestApply_StaleErrorDoesNotMarkDeleteProjectRejected(t *testing.T) {
	e := newTestEngine()
	s := e.InitialState()
	s = e.Transition(s, domain.AddProject{ID: "p2", Title: "Second"})
	s = e.Transition(s, domain.SetError{Message: domain.Ptr(domain.MsgLastProject)})

	next, outcome := e.Apply(s, domain.DeleteProject{ID: "p2"})
	assert.Equal(t, domain.OutcomeApplied, outcome)
	assert.Len(t, next.Projects, 1)

	_, outcome = e.Apply(next, domain.DeleteProject{ID: next.Projects[0].ID})
	assert.Equal(t, domain.OutcomeRejected, outcome)
}

func TestApply_RepeatDeleteCardIsApplied(t *testing.T) {
	e := newTestEngine()
	s := boardWithLanes(e, "a")
	s = e.Transition(s, domain.AddCard{ID: "c1", CardInput: domain.CardInput{LaneID: "a", Title: "c1"}})
	s = e.Transition(s, domain.DeleteCard{ID: "c1"})

	next, outcome := e.Apply(s, domain.DeleteCard{ID: "c1"})
	assert.Equal(t, domain.OutcomeApplied, outcome)
	assert.Len(t, next.CardVersions["c1"], 2)
	assert.Empty(t, next.Projects[0].Lanes[0].CardIDs)
}
