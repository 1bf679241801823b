package presentation_test

import (
	"testing"

	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/internal/runtime"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	e := runtime.NewEngine(runtime.WithIDGenerator(runtime.NewSequenceGenerator("id")))
	s := e.InitialState()
	p := s.Projects[0]
	todo := p.SortedLanes()[0].ID

	s = e.Transition(s, domain.AddCard{ID: "a", CardInput: domain.CardInput{LaneID: todo, Title: "A"}})
	s = e.Transition(s, domain.AddCard{ID: "b", CardInput: domain.CardInput{LaneID: todo, Title: "B"}})
	s = e.Transition(s, domain.DeleteCard{ID: "b"})

	v, ok := presentation.Build(s, "")
	require.True(t, ok)
	assert.Equal(t, p.ID, v.ProjectID)
	assert.True(t, v.Active)
	require.Len(t, v.Lanes, 3)
	assert.Equal(t, "Todo", v.Lanes[0].Title)
	require.Len(t, v.Lanes[0].Cards, 1)
	assert.Equal(t, "a", v.Lanes[0].Cards[0].ID)
	assert.NotNil(t, v.Lanes[1].Cards)
	assert.Equal(t, 1, v.Deleted)
	assert.Equal(t, 1, v.CardCount())

	_, ok = presentation.Build(s, "missing")
	assert.False(t, ok)
	_, ok = presentation.Build(nil, "")
	assert.False(t, ok)
}

func TestSortByUrgency(t *testing.T) {
	mk := func(id string, p domain.Priority, due *string) domain.Card {
		return domain.Card{ID: id, CardData: domain.CardData{Title: id, Priority: p, DueDate: due}}
	}
	cards := []domain.Card{
		mk("low", domain.PriorityLow, nil),
		mk("high-undated", domain.PriorityHigh, nil),
		mk("high-late", domain.PriorityHigh, domain.Ptr("2025-02-01")),
		mk("high-soon", domain.PriorityHigh, domain.Ptr("2025-01-01")),
		mk("urgent", domain.PriorityUrgent, nil),
	}
	presentation.SortByUrgency(cards)

	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"urgent", "high-soon", "high-late", "high-undated", "low"}, ids)
}
