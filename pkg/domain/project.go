package domain

import "time"

// Project is a board owning a set of lanes.
// Lanes has no fixed order; display order derives from each Lane.Order.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	Lanes        []Lane    `json:"lanes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProjectPatch is a shallow-merge update for a project.
type ProjectPatch struct {
	Title        *string          `json:"title,omitempty"`
	ThumbnailURL Nullable[string] `json:"thumbnailUrl,omitzero"`
}

// IsEmpty reports whether the patch would change nothing.
func (p ProjectPatch) IsEmpty() bool { return p.Title == nil && !p.ThumbnailURL.Set }

// DefaultProjectTitle names the project of a freshly initialized board.
const DefaultProjectTitle = "My Board"

// NewProject creates a project seeded with the default lanes.
func NewProject(id, title string, thumbnailURL *string, newID func() string, now time.Time) Project {
	return Project{
		ID:           id,
		Title:        title,
		ThumbnailURL: clonePtr(thumbnailURL),
		Lanes:        DefaultLanes(newID),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Lane returns the lane with the given id.
func (p Project) Lane(id string) (Lane, bool) {
	for _, l := range p.Lanes {
		if l.ID == id {
			return l, true
		}
	}
	return Lane{}, false
}

// SortedLanes returns the project's lanes in display order.
func (p Project) SortedLanes() []Lane {
	return SortLanes(p.Lanes)
}
