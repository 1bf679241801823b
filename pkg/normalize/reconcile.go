package normalize

import (
	"cmp"
	"slices"

	"github.com/aretw0/kanban/pkg/domain"
)

// reconcileLanes repairs lane membership: every live card of a known project
// is listed exactly once, in the lane its LaneID names.
func reconcileLanes(state *domain.BoardState) {
	listed := map[string]bool{}

	for pi := range state.Projects {
		p := &state.Projects[pi]
		for li := range p.Lanes {
			lane := &p.Lanes[li]
			kept := make([]string, 0, len(lane.CardIDs))
			for _, id := range lane.CardIDs {
				c, ok := state.Cards[id]
				if !ok || c.IsDeleted || listed[id] || c.ProjectID != p.ID || c.LaneID != lane.ID {
					continue
				}
				listed[id] = true
				kept = append(kept, id)
			}
			lane.CardIDs = kept
		}
	}

	var orphans []domain.Card
	for id, c := range state.Cards {
		if !c.IsDeleted && !listed[id] {
			orphans = append(orphans, c)
		}
	}
	slices.SortFunc(orphans, func(a, b domain.Card) int {
		return cmp.Or(cmp.Compare(a.LaneID, b.LaneID), cmp.Compare(a.Order, b.Order), cmp.Compare(a.ID, b.ID))
	})

	for _, c := range orphans {
		pi := state.ProjectIndex(c.ProjectID)
		if pi < 0 {
			continue
		}
		p := &state.Projects[pi]
		li := slices.IndexFunc(p.Lanes, func(l domain.Lane) bool { return l.ID == c.LaneID })
		if li < 0 {
			li = 0
			c.LaneID = p.Lanes[0].ID
		}
		lane := &p.Lanes[li]
		c.Order = len(lane.CardIDs)
		lane.CardIDs = append(lane.CardIDs, c.ID)
		state.Cards[c.ID] = c
	}
}
