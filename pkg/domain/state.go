package domain

// BoardState is the complete board: every project, the pooled cards of all
// projects and each card's version history.
type BoardState struct {
	Projects        []Project                `json:"projects"`
	ActiveProjectID *string                  `json:"activeProjectId"`
	Cards           map[string]Card          `json:"cards"`
	CardVersions    map[string][]CardVersion `json:"cardVersions"`
	IsLoading       bool                     `json:"isLoading"`
	Error           *string                  `json:"error"`
}

// NewLoadingState returns the empty state a board holds before its first load.
func NewLoadingState() *BoardState {
	return &BoardState{
		Projects:     []Project{},
		Cards:        map[string]Card{},
		CardVersions: map[string][]CardVersion{},
		IsLoading:    true,
	}
}

// ProjectIndex returns the position of the project with the given id, or -1.
func (s *BoardState) ProjectIndex(id string) int {
	for i, p := range s.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Project returns the project with the given id.
func (s *BoardState) Project(id string) (Project, bool) {
	if i := s.ProjectIndex(id); i >= 0 {
		return s.Projects[i], true
	}
	return Project{}, false
}

// ActiveProject resolves ActiveProjectID against the project list.
// A dangling id reports false.
func (s *BoardState) ActiveProject() (Project, bool) {
	if s.ActiveProjectID == nil {
		return Project{}, false
	}
	return s.Project(*s.ActiveProjectID)
}

// LaneLocation returns the indexes of the project and lane holding laneID.
func (s *BoardState) LaneLocation(laneID string) (projectIdx, laneIdx int, ok bool) {
	for pi, p := range s.Projects {
		for li, l := range p.Lanes {
			if l.ID == laneID {
				return pi, li, true
			}
		}
	}
	return -1, -1, false
}

// CardsByLane returns the non-deleted cards of a lane in CardIDs order.
func (s *BoardState) CardsByLane(laneID string) []Card {
	pi, li, ok := s.LaneLocation(laneID)
	if !ok {
		return nil
	}
	lane := s.Projects[pi].Lanes[li]
	cards := make([]Card, 0, len(lane.CardIDs))
	for _, id := range lane.CardIDs {
		if c, ok := s.Cards[id]; ok && !c.IsDeleted {
			cards = append(cards, c)
		}
	}
	return cards
}

// DeletedCards returns the soft-deleted cards of a project.
func (s *BoardState) DeletedCards(projectID string) []Card {
	var cards []Card
	for _, c := range s.Cards {
		if c.ProjectID == projectID && c.IsDeleted {
			cards = append(cards, c)
		}
	}
	return cards
}

// CanUndo reports whether the card has at least one recorded version.
func (s *BoardState) CanUndo(cardID string) bool {
	return len(s.CardVersions[cardID]) > 0
}
