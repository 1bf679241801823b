package domain

import (
	"reflect"
	"slices"
)

// BoardDiff represents the changes between two board states.
// It is designed to be serialized to JSON for change notifications.
type BoardDiff struct {
	// ActiveProjectID is present when the selection changed; an empty string means cleared.
	ActiveProjectID *string `json:"activeProjectId,omitempty"`

	Projects *ChangeSet `json:"projects,omitempty"`
	Lanes    *ChangeSet `json:"lanes,omitempty"`
	Cards    *ChangeSet `json:"cards,omitempty"`

	// Versions lists cards whose history grew or shrank.
	Versions []string `json:"versions,omitempty"`

	// Error is present when the user-visible error changed; empty means cleared.
	Error *string `json:"error,omitempty"`
}

// ChangeSet lists changed (added or modified) and removed ids.
type ChangeSet struct {
	Changed []string `json:"changed,omitempty"`
	Removed []string `json:"removed,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, everything in newState is reported as changed.
// It returns nil when nothing changed.
func Diff(oldState, newState *BoardState) *BoardDiff {
	if newState == nil {
		return nil
	}
	if oldState == nil {
		oldState = &BoardState{}
	}

	diff := &BoardDiff{}

	if derefOr(oldState.ActiveProjectID) != derefOr(newState.ActiveProjectID) {
		v := derefOr(newState.ActiveProjectID)
		diff.ActiveProjectID = &v
	}
	if derefOr(oldState.Error) != derefOr(newState.Error) {
		v := derefOr(newState.Error)
		diff.Error = &v
	}

	diff.Projects = diffByID(projectsByID(oldState), projectsByID(newState))
	diff.Lanes = diffByID(lanesByID(oldState), lanesByID(newState))
	diff.Cards = diffByID(oldState.Cards, newState.Cards)

	for id, versions := range newState.CardVersions {
		if len(versions) != len(oldState.CardVersions[id]) {
			diff.Versions = append(diff.Versions, id)
		}
	}
	for id, versions := range oldState.CardVersions {
		if _, ok := newState.CardVersions[id]; !ok && len(versions) > 0 {
			diff.Versions = append(diff.Versions, id)
		}
	}
	slices.Sort(diff.Versions)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *BoardDiff) IsEmpty() bool {
	return d.ActiveProjectID == nil &&
		d.Error == nil &&
		d.Projects == nil &&
		d.Lanes == nil &&
		d.Cards == nil &&
		len(d.Versions) == 0
}

func projectsByID(s *BoardState) map[string]Project {
	out := make(map[string]Project, len(s.Projects))
	for _, p := range s.Projects {
		// Lanes are diffed separately.
		p.Lanes = nil
		out[p.ID] = p
	}
	return out
}

func lanesByID(s *BoardState) map[string]Lane {
	out := make(map[string]Lane)
	for _, p := range s.Projects {
		for _, l := range p.Lanes {
			out[l.ID] = l
		}
	}
	return out
}

func diffByID[T any](old, new map[string]T) *ChangeSet {
	cs := &ChangeSet{}
	for id, newVal := range new {
		oldVal, exists := old[id]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			cs.Changed = append(cs.Changed, id)
		}
	}
	for id := range old {
		if _, exists := new[id]; !exists {
			cs.Removed = append(cs.Removed, id)
		}
	}
	if len(cs.Changed) == 0 && len(cs.Removed) == 0 {
		return nil
	}
	slices.Sort(cs.Changed)
	slices.Sort(cs.Removed)
	return cs
}

func derefOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
