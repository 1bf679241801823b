package runtime

import (
	"slices"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
)

func (e *Engine) addCard(state *domain.BoardState, a domain.AddCard) *domain.BoardState {
	project, ok := state.ActiveProject()
	if !ok {
		return state
	}
	li := laneIndex(project, a.LaneID)
	if li < 0 {
		return state
	}
	id := a.ID
	if id == "" {
		id = e.ids.NewID()
	}
	if _, exists := state.Cards[id]; exists {
		return state
	}

	now := e.now()
	pi := state.ProjectIndex(project.ID)
	lane := project.Lanes[li]

	labels := slices.Clone(a.Labels)
	if labels == nil {
		labels = []domain.Label{}
	}
	card := domain.Card{
		ID: id,
		CardData: domain.CardData{
			ProjectID:   project.ID,
			Title:       a.Title,
			Description: a.Description,
			Type:        orDefault(a.Type, domain.DefaultCardType),
			Priority:    orDefault(a.Priority, domain.DefaultPriority),
			DueDate:     cloneString(a.DueDate),
			Labels:      labels,
			Assignee:    cloneString(a.Assignee),
			LaneID:      lane.ID,
			Order:       len(lane.CardIDs),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	d := newDraft(state)
	d.setCard(card)
	l := d.lane(pi, li)
	l.CardIDs = appended(l.CardIDs, id)
	d.touchProject(pi, now)
	return d.s
}

func (e *Engine) updateCard(state *domain.BoardState, a domain.UpdateCard) *domain.BoardState {
	card, ok := state.Cards[a.ID]
	if !ok {
		return state
	}
	now := e.now()

	d := newDraft(state)
	e.pushVersion(d, card, now)
	card.CardData = a.Patch.Apply(card.Snapshot())
	card.UpdatedAt = now
	d.setCard(card)
	d.touchProject(state.ProjectIndex(card.ProjectID), now)
	return d.s
}

// deleteCard records a version even when the card is already deleted.
func (e *Engine) deleteCard(state *domain.BoardState, a domain.DeleteCard) *domain.BoardState {
	card, ok := state.Cards[a.ID]
	if !ok {
		return state
	}
	now := e.now()

	d := newDraft(state)
	e.pushVersion(d, card, now)
	if pi, li, ok := state.LaneLocation(card.LaneID); ok {
		l := d.lane(pi, li)
		l.CardIDs = without(l.CardIDs, card.ID)
	}
	card.CardData = card.Snapshot()
	card.IsDeleted = true
	card.UpdatedAt = now
	d.setCard(card)
	d.touchProject(state.ProjectIndex(card.ProjectID), now)
	return d.s
}

func (e *Engine) restoreCard(state *domain.BoardState, a domain.RestoreCard) *domain.BoardState {
	card, ok := state.Cards[a.ID]
	if !ok || !card.IsDeleted {
		return state
	}
	now := e.now()
	pi := state.ProjectIndex(card.ProjectID)

	d := newDraft(state)
	laneID := card.LaneID
	li := -1
	if pi >= 0 {
		li = laneIndex(state.Projects[pi], laneID)
		if li < 0 && len(state.Projects[pi].Lanes) > 0 {
			li = 0
			laneID = state.Projects[pi].Lanes[0].ID
		}
	}
	card.CardData = card.Snapshot()
	card.IsDeleted = false
	card.LaneID = laneID
	card.UpdatedAt = now
	if li >= 0 {
		l := d.lane(pi, li)
		card.Order = len(l.CardIDs)
		if !slices.Contains(l.CardIDs, card.ID) {
			l.CardIDs = appended(l.CardIDs, card.ID)
		}
	}
	d.setCard(card)
	d.touchProject(pi, now)
	return d.s
}

func (e *Engine) moveCard(state *domain.BoardState, a domain.MoveCard) *domain.BoardState {
	card, ok := state.Cards[a.ID]
	// A deleted card must stay out of every lane's cardIds.
	if !ok || card.IsDeleted {
		return state
	}
	pi := state.ProjectIndex(card.ProjectID)
	if pi < 0 {
		return state
	}
	project := state.Projects[pi]
	to := laneIndex(project, a.ToLaneID)
	if to < 0 {
		return state
	}
	now := e.now()

	d := newDraft(state)
	e.pushVersion(d, card, now)
	if from := laneIndex(project, card.LaneID); from >= 0 {
		l := d.lane(pi, from)
		l.CardIDs = without(l.CardIDs, card.ID)
	}
	dst := d.lane(pi, to)
	// A same-lane move removes first, so the index addresses the shortened list.
	dst.CardIDs = insertedAt(without(dst.CardIDs, card.ID), a.ToIndex, card.ID)

	card.CardData = card.Snapshot()
	card.LaneID = a.ToLaneID
	card.Order = slices.Index(dst.CardIDs, card.ID)
	card.UpdatedAt = now
	d.setCard(card)
	d.touchProject(pi, now)
	return d.s
}

func (e *Engine) reorderCards(state *domain.BoardState, a domain.ReorderCards) *domain.BoardState {
	pi, li, ok := state.LaneLocation(a.LaneID)
	if !ok {
		return state
	}
	lane := state.Projects[pi].Lanes[li]
	if !isPermutation(lane.CardIDs, a.CardIDs) || slices.Equal(lane.CardIDs, a.CardIDs) {
		return state
	}
	now := e.now()

	d := newDraft(state)
	l := d.lane(pi, li)
	l.CardIDs = slices.Clone(a.CardIDs)
	for i, id := range l.CardIDs {
		if c, ok := state.Cards[id]; ok && c.Order != i {
			c.Order = i
			d.setCard(c)
		}
	}
	d.touchProject(pi, now)
	return d.s
}

// pushVersion records the card's current content as its next version.
func (e *Engine) pushVersion(d *draft, card domain.Card, now time.Time) {
	history := d.s.CardVersions[card.ID]
	next := 1
	for _, v := range history {
		next = max(next, v.Version+1)
	}
	out := make([]domain.CardVersion, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, domain.CardVersion{
		ID:        e.ids.NewID(),
		CardID:    card.ID,
		Version:   next,
		Data:      card.Snapshot(),
		Timestamp: now,
	})
	d.setVersions(card.ID, out)
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
