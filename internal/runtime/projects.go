package runtime

import (
	"github.com/aretw0/kanban/pkg/domain"
)

func (e *Engine) addProject(state *domain.BoardState, a domain.AddProject) *domain.BoardState {
	id := a.ID
	if id == "" {
		id = e.ids.NewID()
	}
	if state.ProjectIndex(id) >= 0 {
		return state
	}
	title := a.Title
	if title == "" {
		title = domain.DefaultProjectTitle
	}
	p := domain.NewProject(id, title, a.ThumbnailURL, e.ids.NewID, e.now())

	d := newDraft(state)
	projects := make([]domain.Project, 0, len(state.Projects)+1)
	projects = append(projects, state.Projects...)
	d.s.Projects = append(projects, p)
	d.projects = true
	d.s.ActiveProjectID = domain.Ptr(id)
	return d.s
}

func (e *Engine) updateProject(state *domain.BoardState, a domain.UpdateProject) *domain.BoardState {
	pi := state.ProjectIndex(a.ID)
	if pi < 0 || a.Patch.IsEmpty() {
		return state
	}
	now := e.now()

	d := newDraft(state)
	p := d.project(pi)
	if a.Patch.Title != nil {
		p.Title = *a.Patch.Title
	}
	if a.Patch.ThumbnailURL.Set {
		p.ThumbnailURL = cloneString(a.Patch.ThumbnailURL.Value)
	}
	p.UpdatedAt = now
	return d.s
}

// deleteProject drops a project with its cards and their histories.
// If it was active, the new first project (or none) becomes active.
func (e *Engine) deleteProject(state *domain.BoardState, a domain.DeleteProject) *domain.BoardState {
	pi := state.ProjectIndex(a.ID)
	if pi < 0 {
		return state
	}
	if len(state.Projects) <= 1 {
		return e.setError(state, domain.SetError{Message: domain.Ptr(domain.MsgLastProject)})
	}

	d := newDraft(state)
	projects := make([]domain.Project, 0, len(state.Projects)-1)
	projects = append(projects, state.Projects[:pi]...)
	d.s.Projects = append(projects, state.Projects[pi+1:]...)
	d.projects = true

	for id, c := range state.Cards {
		if c.ProjectID != a.ID {
			continue
		}
		d.removeCard(id)
		if _, ok := state.CardVersions[id]; ok {
			d.setVersions(id, nil)
		}
	}

	if state.ActiveProjectID != nil && *state.ActiveProjectID == a.ID {
		d.s.ActiveProjectID = nil
		if len(d.s.Projects) > 0 {
			d.s.ActiveProjectID = domain.Ptr(d.s.Projects[0].ID)
		}
	}
	return d.s
}
