package kanban

import "github.com/aretw0/kanban/pkg/domain"

// AddCard creates a card in laneID of the active project and returns its id.
func (b *Board) AddCard(in domain.CardInput) (string, bool) {
	id := b.engine.NewID()
	return id, b.Dispatch(domain.AddCard{ID: id, CardInput: in})
}

func (b *Board) UpdateCard(id string, patch domain.CardPatch) bool {
	return b.Dispatch(domain.UpdateCard{ID: id, Patch: patch})
}

func (b *Board) DeleteCard(id string) bool {
	return b.Dispatch(domain.DeleteCard{ID: id})
}

func (b *Board) RestoreCard(id string) bool {
	return b.Dispatch(domain.RestoreCard{ID: id})
}

// MoveCard moves a card to toLaneID at toIndex. Indexes past the end append.
func (b *Board) MoveCard(id, toLaneID string, toIndex int) bool {
	return b.Dispatch(domain.MoveCard{ID: id, ToLaneID: toLaneID, ToIndex: toIndex})
}

// ReorderCards sets a lane's card order. cardIDs must be a permutation of the lane's cards.
func (b *Board) ReorderCards(laneID string, cardIDs []string) bool {
	return b.Dispatch(domain.ReorderCards{LaneID: laneID, CardIDs: cardIDs})
}

func (b *Board) UndoCard(id string) bool {
	return b.Dispatch(domain.UndoCard{ID: id})
}

// AddLane appends a lane to the active project and returns its id.
func (b *Board) AddLane(title string) (string, bool) {
	id := b.engine.NewID()
	return id, b.Dispatch(domain.AddLane{ID: id, Title: title})
}

func (b *Board) UpdateLane(id string, patch domain.LanePatch) bool {
	return b.Dispatch(domain.UpdateLane{ID: id, Patch: patch})
}

// RenameLane is UpdateLane with only a title.
func (b *Board) RenameLane(id, title string) bool {
	return b.UpdateLane(id, domain.LanePatch{Title: &title})
}

// DeleteLane removes a lane. Deleting the last lane sets the board error
// instead; that still counts as a change.
func (b *Board) DeleteLane(id string) bool {
	return b.Dispatch(domain.DeleteLane{ID: id})
}

func (b *Board) ReorderLanes(laneIDs []string) bool {
	return b.Dispatch(domain.ReorderLanes{LaneIDs: laneIDs})
}

// AddProject creates a project with the default lanes, makes it active and returns its id.
func (b *Board) AddProject(title string, thumbnailURL *string) (string, bool) {
	id := b.engine.NewID()
	return id, b.Dispatch(domain.AddProject{ID: id, Title: title, ThumbnailURL: thumbnailURL})
}

func (b *Board) UpdateProject(id string, patch domain.ProjectPatch) bool {
	return b.Dispatch(domain.UpdateProject{ID: id, Patch: patch})
}

func (b *Board) DeleteProject(id string) bool {
	return b.Dispatch(domain.DeleteProject{ID: id})
}

func (b *Board) SetActiveProject(id string) bool {
	return b.Dispatch(domain.SetActiveProject{ID: id})
}

// SetError sets the user-visible error; ClearError removes it.
func (b *Board) SetError(msg string) bool {
	return b.Dispatch(domain.SetError{Message: &msg})
}

func (b *Board) ClearError() bool {
	if b.State().Error == nil {
		return false
	}
	return b.Dispatch(domain.SetError{})
}
