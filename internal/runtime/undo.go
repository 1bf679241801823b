package runtime

import (
	"slices"

	"github.com/aretw0/kanban/pkg/domain"
)

// undoCard rewinds a card to its latest version and pops that version.
// Lane membership follows the restored content: a card that becomes listed,
// unlisted, or lands in another lane is moved between CardIDs accordingly.
func (e *Engine) undoCard(state *domain.BoardState, a domain.UndoCard) *domain.BoardState {
	current, ok := state.Cards[a.ID]
	if !ok {
		return state
	}
	history := state.CardVersions[a.ID]
	if len(history) == 0 {
		return state
	}
	last := history[len(history)-1]
	now := e.now()

	restored := domain.Card{ID: current.ID, CardData: last.Data}
	restored.CardData = restored.Snapshot()
	if restored.ProjectID == "" {
		restored.ProjectID = current.ProjectID
	}
	if restored.Labels == nil {
		restored.Labels = []domain.Label{}
	}
	restored.UpdatedAt = now

	d := newDraft(state)
	d.setVersions(a.ID, slices.Clone(history[:len(history)-1]))

	pi := state.ProjectIndex(restored.ProjectID)
	wasListed := !current.IsDeleted
	willListed := !restored.IsDeleted
	sameLane := current.LaneID == restored.LaneID

	if pi >= 0 && !(sameLane && wasListed && willListed) {
		project := state.Projects[pi]
		if wasListed {
			if from := laneIndex(project, current.LaneID); from >= 0 {
				l := d.lane(pi, from)
				l.CardIDs = without(l.CardIDs, current.ID)
			}
		}
		if willListed {
			to := laneIndex(project, restored.LaneID)
			if to < 0 && len(project.Lanes) > 0 {
				to = 0
				restored.LaneID = project.Lanes[0].ID
			}
			if to >= 0 {
				l := d.lane(pi, to)
				if !slices.Contains(l.CardIDs, current.ID) {
					l.CardIDs = appended(l.CardIDs, current.ID)
				}
				restored.Order = slices.Index(l.CardIDs, current.ID)
			}
		}
	}

	d.setCard(restored)
	d.touchProject(pi, now)
	return d.s
}
