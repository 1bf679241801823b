package domain

import "sort"

// Lane is an ordered column of a project.
// CardIDs is the authoritative display order for the lane's non-deleted cards.
type Lane struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Order   int      `json:"order"`
	CardIDs []string `json:"cardIds"`
}

// LanePatch is a shallow-merge update for a lane.
type LanePatch struct {
	Title *string `json:"title,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p LanePatch) IsEmpty() bool { return p.Title == nil && p.Order == nil }

// DefaultLaneTitles seeds every new project.
var DefaultLaneTitles = []string{"Todo", "Doing", "Done"}

// DefaultLanes builds the Todo/Doing/Done lane set with fresh ids.
func DefaultLanes(newID func() string) []Lane {
	lanes := make([]Lane, len(DefaultLaneTitles))
	for i, title := range DefaultLaneTitles {
		lanes[i] = Lane{ID: newID(), Title: title, Order: i, CardIDs: []string{}}
	}
	return lanes
}

// SortLanes returns a copy of lanes ordered by their Order field.
// Ties keep their relative position.
func SortLanes(lanes []Lane) []Lane {
	out := make([]Lane, len(lanes))
	copy(out, lanes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
