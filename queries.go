package kanban

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aretw0/kanban/pkg/domain"
)

// ActiveProject returns the project currently presented by the board.
func (b *Board) ActiveProject() (domain.Project, bool) {
	return b.State().ActiveProject()
}

// Projects returns the board's projects in list order.
func (b *Board) Projects() []domain.Project {
	return slices.Clone(b.State().Projects)
}

// SortedLanes returns a project's lanes in display order.
func (b *Board) SortedLanes(projectID string) []domain.Lane {
	p, ok := b.State().Project(projectID)
	if !ok {
		return nil
	}
	return p.SortedLanes()
}

// Card returns a card, deleted or not.
func (b *Board) Card(id string) (domain.Card, bool) {
	c, ok := b.State().Cards[id]
	return c, ok
}

// CardsByLane returns the live cards of a lane of the active project, in lane order.
// Lanes of other projects yield nothing.
func (b *Board) CardsByLane(laneID string) []domain.Card {
	s := b.State()
	p, ok := s.ActiveProject()
	if !ok {
		return nil
	}
	if _, ok := p.Lane(laneID); !ok {
		return nil
	}
	return s.CardsByLane(laneID)
}

// CanUndo reports whether the card has a version to step back to.
func (b *Board) CanUndo(cardID string) bool {
	return b.State().CanUndo(cardID)
}

// History returns the card's versions, oldest first.
func (b *Board) History(cardID string) []domain.CardVersion {
	return slices.Clone(b.State().CardVersions[cardID])
}

// DeletedCards returns a project's soft-deleted cards ordered by last update.
func (b *Board) DeletedCards(projectID string) []domain.Card {
	cards := b.State().DeletedCards(projectID)
	slices.SortFunc(cards, func(x, y domain.Card) int {
		return cmp.Or(y.UpdatedAt.Compare(x.UpdatedAt), strings.Compare(x.ID, y.ID))
	})
	return cards
}

// Error returns the user-visible error, if any.
func (b *Board) Error() (string, bool) {
	s := b.State()
	if s.Error == nil {
		return "", false
	}
	return *s.Error, true
}
