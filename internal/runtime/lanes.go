package runtime

import (
	"slices"
	"sort"

	"github.com/aretw0/kanban/pkg/domain"
)

func (e *Engine) addLane(state *domain.BoardState, a domain.AddLane) *domain.BoardState {
	project, ok := state.ActiveProject()
	if !ok {
		return state
	}
	id := a.ID
	if id == "" {
		id = e.ids.NewID()
	}
	if _, _, exists := state.LaneLocation(id); exists {
		return state
	}
	order := -1
	for _, l := range project.Lanes {
		order = max(order, l.Order)
	}
	now := e.now()
	pi := state.ProjectIndex(project.ID)

	d := newDraft(state)
	p := d.project(pi)
	lanes := make([]domain.Lane, 0, len(p.Lanes)+1)
	lanes = append(lanes, p.Lanes...)
	p.Lanes = append(lanes, domain.Lane{ID: id, Title: a.Title, Order: order + 1, CardIDs: []string{}})
	d.lanes[pi] = true
	d.touchProject(pi, now)
	return d.s
}

func (e *Engine) updateLane(state *domain.BoardState, a domain.UpdateLane) *domain.BoardState {
	pi, li, ok := state.LaneLocation(a.ID)
	if !ok || a.Patch.IsEmpty() {
		return state
	}
	now := e.now()

	d := newDraft(state)
	l := d.lane(pi, li)
	if a.Patch.Title != nil {
		l.Title = *a.Patch.Title
	}
	if a.Patch.Order != nil {
		l.Order = *a.Patch.Order
	}
	d.touchProject(pi, now)
	return d.s
}

// deleteLane removes a lane and moves its cards, deleted ones included, to
// the first remaining lane in list order. Remaining lanes are renumbered
// 0..n-1 keeping their relative display order.
func (e *Engine) deleteLane(state *domain.BoardState, a domain.DeleteLane) *domain.BoardState {
	pi, li, ok := state.LaneLocation(a.ID)
	if !ok {
		return state
	}
	project := state.Projects[pi]
	if len(project.Lanes) <= 1 {
		return e.setError(state, domain.SetError{Message: domain.Ptr(domain.MsgLastLane)})
	}
	removed := project.Lanes[li]
	now := e.now()

	d := newDraft(state)
	p := d.project(pi)
	lanes := make([]domain.Lane, 0, len(project.Lanes)-1)
	for i, l := range project.Lanes {
		if i != li {
			lanes = append(lanes, l)
		}
	}
	d.lanes[pi] = true

	target := &lanes[0]
	ids := slices.Clone(target.CardIDs)
	for _, id := range removed.CardIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	target.CardIDs = ids

	for id, c := range state.Cards {
		if c.ProjectID != project.ID || c.LaneID != removed.ID {
			continue
		}
		c.LaneID = target.ID
		if i := slices.Index(ids, id); i >= 0 {
			c.Order = i
		}
		c.UpdatedAt = now
		d.setCard(c)
	}

	renumber(lanes)
	p.Lanes = lanes
	d.touchProject(pi, now)
	return d.s
}

// reorderLanes assigns Order from positions in LaneIDs. The ids must name
// every lane of one project exactly once, otherwise the action is ignored.
func (e *Engine) reorderLanes(state *domain.BoardState, a domain.ReorderLanes) *domain.BoardState {
	if len(a.LaneIDs) == 0 {
		return state
	}
	pi, _, ok := state.LaneLocation(a.LaneIDs[0])
	if !ok {
		return state
	}
	project := state.Projects[pi]
	current := make([]string, len(project.Lanes))
	for i, l := range project.Lanes {
		current[i] = l.ID
	}
	if !isPermutation(current, a.LaneIDs) {
		return state
	}
	changed := false
	for _, l := range project.Lanes {
		if slices.Index(a.LaneIDs, l.ID) != l.Order {
			changed = true
			break
		}
	}
	if !changed {
		return state
	}
	now := e.now()

	d := newDraft(state)
	for li := range project.Lanes {
		l := d.lane(pi, li)
		l.Order = slices.Index(a.LaneIDs, l.ID)
	}
	d.touchProject(pi, now)
	return d.s
}

// renumber rewrites Order to 0..n-1 by the lanes' current Order rank,
// leaving their slice positions untouched.
func renumber(lanes []domain.Lane) {
	idx := make([]int, len(lanes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return lanes[idx[a]].Order < lanes[idx[b]].Order })
	for rank, i := range idx {
		lanes[i].Order = rank
	}
}
