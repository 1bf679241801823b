package domain

// ActionKind is the stable discriminator of an Action.
type ActionKind string

// Action kinds understood by the transition engine.
const (
	KindAddCard          ActionKind = "ADD_CARD"
	KindUpdateCard       ActionKind = "UPDATE_CARD"
	KindDeleteCard       ActionKind = "DELETE_CARD"
	KindRestoreCard      ActionKind = "RESTORE_CARD"
	KindMoveCard         ActionKind = "MOVE_CARD"
	KindReorderCards     ActionKind = "REORDER_CARDS"
	KindUndoCard         ActionKind = "UNDO_CARD"
	KindAddLane          ActionKind = "ADD_LANE"
	KindUpdateLane       ActionKind = "UPDATE_LANE"
	KindDeleteLane       ActionKind = "DELETE_LANE"
	KindReorderLanes     ActionKind = "REORDER_LANES"
	KindAddProject       ActionKind = "ADD_PROJECT"
	KindUpdateProject    ActionKind = "UPDATE_PROJECT"
	KindDeleteProject    ActionKind = "DELETE_PROJECT"
	KindSetActiveProject ActionKind = "SET_ACTIVE_PROJECT"
	KindLoadState        ActionKind = "LOAD_STATE"
	KindSetError         ActionKind = "SET_ERROR"
)

// Action is a requested board change. The set of implementations is closed:
// only types declared in this package satisfy it.
type Action interface {
	Kind() ActionKind
	isAction()
}

// AddCard appends a new card to the tail of LaneID in the active project.
// ID is optional; the engine generates one when empty.
type AddCard struct {
	ID string `json:"id,omitempty"`
	CardInput
}

// UpdateCard shallow-merges Patch onto the card.
type UpdateCard struct {
	ID    string    `json:"id"`
	Patch CardPatch `json:"updates"`
}

// DeleteCard soft-deletes a card and removes it from its lane.
type DeleteCard struct {
	ID string `json:"id"`
}

// RestoreCard reverses a soft delete, appending the card to its lane.
type RestoreCard struct {
	ID string `json:"id"`
}

// MoveCard moves a card to ToLaneID at ToIndex. Indexes past the end append.
type MoveCard struct {
	ID       string `json:"cardId"`
	ToLaneID string `json:"toLaneId"`
	ToIndex  int    `json:"toIndex"`
}

// ReorderCards replaces a lane's CardIDs with a permutation of the same ids.
type ReorderCards struct {
	LaneID  string   `json:"laneId"`
	CardIDs []string `json:"cardIds"`
}

// UndoCard restores a card to its most recent version and pops that version.
type UndoCard struct {
	ID string `json:"cardId"`
}

// AddLane appends a lane to the active project.
type AddLane struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
}

// UpdateLane shallow-merges Patch onto the lane.
type UpdateLane struct {
	ID    string    `json:"id"`
	Patch LanePatch `json:"updates"`
}

// DeleteLane removes a lane, cascading its cards to the first remaining lane.
type DeleteLane struct {
	ID string `json:"id"`
}

// ReorderLanes assigns each lane's Order from its position in LaneIDs.
type ReorderLanes struct {
	LaneIDs []string `json:"laneIds"`
}

// AddProject creates a project seeded with default lanes and activates it.
type AddProject struct {
	ID           string  `json:"id,omitempty"`
	Title        string  `json:"title"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// UpdateProject shallow-merges Patch onto the project.
type UpdateProject struct {
	ID    string       `json:"id"`
	Patch ProjectPatch `json:"updates"`
}

// DeleteProject removes a project together with its cards and histories.
type DeleteProject struct {
	ID string `json:"id"`
}

// SetActiveProject selects the project presented by the board.
// An empty ID clears the selection. Existence is not checked.
type SetActiveProject struct {
	ID string `json:"id"`
}

// LoadState replaces the whole state.
type LoadState struct {
	State *BoardState `json:"state"`
}

// SetError sets or clears (nil) the user-visible error message.
type SetError struct {
	Message *string `json:"message"`
}

func (AddCard) Kind() ActionKind          { return KindAddCard }
func (UpdateCard) Kind() ActionKind       { return KindUpdateCard }
func (DeleteCard) Kind() ActionKind       { return KindDeleteCard }
func (RestoreCard) Kind() ActionKind      { return KindRestoreCard }
func (MoveCard) Kind() ActionKind         { return KindMoveCard }
func (ReorderCards) Kind() ActionKind     { return KindReorderCards }
func (UndoCard) Kind() ActionKind         { return KindUndoCard }
func (AddLane) Kind() ActionKind          { return KindAddLane }
func (UpdateLane) Kind() ActionKind       { return KindUpdateLane }
func (DeleteLane) Kind() ActionKind       { return KindDeleteLane }
func (ReorderLanes) Kind() ActionKind     { return KindReorderLanes }
func (AddProject) Kind() ActionKind       { return KindAddProject }
func (UpdateProject) Kind() ActionKind    { return KindUpdateProject }
func (DeleteProject) Kind() ActionKind    { return KindDeleteProject }
func (SetActiveProject) Kind() ActionKind { return KindSetActiveProject }
func (LoadState) Kind() ActionKind        { return KindLoadState }
func (SetError) Kind() ActionKind         { return KindSetError }

func (AddCard) isAction()          {}
func (UpdateCard) isAction()       {}
func (DeleteCard) isAction()       {}
func (RestoreCard) isAction()      {}
func (MoveCard) isAction()         {}
func (ReorderCards) isAction()     {}
func (UndoCard) isAction()         {}
func (AddLane) isAction()          {}
func (UpdateLane) isAction()       {}
func (DeleteLane) isAction()       {}
func (ReorderLanes) isAction()     {}
func (AddProject) isAction()       {}
func (UpdateProject) isAction()    {}
func (DeleteProject) isAction()    {}
func (SetActiveProject) isAction() {}
func (LoadState) isAction()        {}
func (SetError) isAction()         {}
