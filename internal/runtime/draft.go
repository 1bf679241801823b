package runtime

import (
	"maps"
	"slices"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
)

// draft is a copy-on-write view of a BoardState.
// The struct is copied up front; maps and slices are cloned on first write,
// so the base state and the result never share a mutated subtree.
type draft struct {
	s *domain.BoardState

	cards    bool
	versions bool
	projects bool
	lanes    map[int]bool
}

func newDraft(base *domain.BoardState) *draft {
	n := *base
	return &draft{s: &n, lanes: make(map[int]bool)}
}

func (d *draft) ownCards() {
	if d.cards {
		return
	}
	d.s.Cards = maps.Clone(d.s.Cards)
	if d.s.Cards == nil {
		d.s.Cards = make(map[string]domain.Card)
	}
	d.cards = true
}

func (d *draft) ownVersions() {
	if d.versions {
		return
	}
	d.s.CardVersions = maps.Clone(d.s.CardVersions)
	if d.s.CardVersions == nil {
		d.s.CardVersions = make(map[string][]domain.CardVersion)
	}
	d.versions = true
}

func (d *draft) ownProjects() {
	if d.projects {
		return
	}
	d.s.Projects = slices.Clone(d.s.Projects)
	d.projects = true
}

func (d *draft) ownLanes(pi int) {
	d.ownProjects()
	if d.lanes[pi] {
		return
	}
	d.s.Projects[pi].Lanes = slices.Clone(d.s.Projects[pi].Lanes)
	d.lanes[pi] = true
}

func (d *draft) setCard(c domain.Card) {
	d.ownCards()
	d.s.Cards[c.ID] = c
}

func (d *draft) removeCard(id string) {
	d.ownCards()
	delete(d.s.Cards, id)
}

// setVersions replaces a card's history. An empty history removes the entry.
func (d *draft) setVersions(cardID string, versions []domain.CardVersion) {
	d.ownVersions()
	if len(versions) == 0 {
		delete(d.s.CardVersions, cardID)
		return
	}
	d.s.CardVersions[cardID] = versions
}

// project returns a mutable pointer to the project at pi.
func (d *draft) project(pi int) *domain.Project {
	d.ownProjects()
	return &d.s.Projects[pi]
}

// lane returns a mutable pointer to a lane. Its CardIDs must be replaced, not edited.
func (d *draft) lane(pi, li int) *domain.Lane {
	d.ownLanes(pi)
	return &d.s.Projects[pi].Lanes[li]
}

func (d *draft) touchProject(pi int, now time.Time) {
	if pi < 0 {
		return
	}
	d.project(pi).UpdatedAt = now
}

// Slice helpers. Each returns a fresh slice and leaves its input intact.

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func appended(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}

// insertedAt inserts id at idx, clamping idx into [0, len(ids)].
func insertedAt(ids []string, idx int, id string) []string {
	idx = max(0, min(idx, len(ids)))
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:idx]...)
	out = append(out, id)
	return append(out, ids[idx:]...)
}

// isPermutation reports whether got holds exactly the ids of want, each once.
func isPermutation(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	seen := make(map[string]int, len(want))
	for _, id := range want {
		seen[id]++
	}
	for _, id := range got {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}

func laneIndex(p domain.Project, laneID string) int {
	for i, l := range p.Lanes {
		if l.ID == laneID {
			return i
		}
	}
	return -1
}
