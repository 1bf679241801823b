// Package presentation shapes a board into views for terminal and agent output.
package presentation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aretw0/kanban/pkg/domain"
)

// BoardView is one project laid out for display.
type BoardView struct {
	ProjectID string     `json:"projectId"`
	Title     string     `json:"title"`
	Active    bool       `json:"active"`
	Lanes     []LaneView `json:"lanes"`
	Deleted   int        `json:"deletedCards"`
	Error     string     `json:"error,omitempty"`
}

// LaneView is a lane with its live cards in display order.
type LaneView struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Cards []domain.Card `json:"cards"`
}

// Build lays out projectID, or the active project when projectID is empty.
func Build(state *domain.BoardState, projectID string) (BoardView, bool) {
	if state == nil {
		return BoardView{}, false
	}
	var p domain.Project
	var ok bool
	if projectID == "" {
		p, ok = state.ActiveProject()
	} else {
		p, ok = state.Project(projectID)
	}
	if !ok {
		return BoardView{}, false
	}

	v := BoardView{
		ProjectID: p.ID,
		Title:     p.Title,
		Active:    state.ActiveProjectID != nil && *state.ActiveProjectID == p.ID,
		Deleted:   len(state.DeletedCards(p.ID)),
	}
	if state.Error != nil {
		v.Error = *state.Error
	}
	for _, l := range p.SortedLanes() {
		cards := state.CardsByLane(l.ID)
		if cards == nil {
			cards = []domain.Card{}
		}
		v.Lanes = append(v.Lanes, LaneView{ID: l.ID, Title: l.Title, Cards: cards})
	}
	return v, true
}

// CardCount is the number of live cards across all lanes.
func (v BoardView) CardCount() int {
	n := 0
	for _, l := range v.Lanes {
		n += len(l.Cards)
	}
	return n
}

// PriorityRank orders priorities from most to least pressing.
func PriorityRank(p domain.Priority) int {
	switch p {
	case domain.PriorityUrgent:
		return 0
	case domain.PriorityHigh:
		return 1
	case domain.PriorityMedium:
		return 2
	default:
		return 3
	}
}

// SortByUrgency sorts cards by priority, then due date (undated last), then title.
func SortByUrgency(cards []domain.Card) {
	slices.SortStableFunc(cards, func(a, b domain.Card) int {
		return cmp.Or(
			cmp.Compare(PriorityRank(a.Priority), PriorityRank(b.Priority)),
			compareDue(a.DueDate, b.DueDate),
			strings.Compare(a.Title, b.Title),
		)
	})
}

func compareDue(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return strings.Compare(*a, *b)
	}
}

// LabelNames joins a card's label names.
func LabelNames(labels []domain.Label) string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return strings.Join(names, ", ")
}
