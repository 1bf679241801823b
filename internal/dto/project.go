package dto

import (
	"time"

	"github.com/aretw0/kanban/pkg/domain"
)

// ProjectDocument is a persisted project as written by any schema version.
// Early single-board documents used "name" where current ones use "title".
type ProjectDocument struct {
	ID           string        `json:"id" mapstructure:"id"`
	Title        string        `json:"title" mapstructure:"title"`
	Name         string        `json:"name" mapstructure:"name"`
	ThumbnailURL *string       `json:"thumbnailUrl" mapstructure:"thumbnailUrl"`
	Lanes        []domain.Lane `json:"lanes" mapstructure:"lanes"`
	CreatedAt    time.Time     `json:"createdAt" mapstructure:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt" mapstructure:"updatedAt"`
}

// ResolvedTitle prefers Title, then the legacy Name.
func (p ProjectDocument) ResolvedTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// Project converts the document into its domain form without filling defaults.
func (p ProjectDocument) Project() domain.Project {
	return domain.Project{
		ID:           p.ID,
		Title:        p.ResolvedTitle(),
		ThumbnailURL: p.ThumbnailURL,
		Lanes:        p.Lanes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// Top-level keys of a persisted board document.
const (
	KeyProjects        = "projects"
	KeyProject         = "project"
	KeyActiveProjectID = "activeProjectId"
	KeyCards           = "cards"
	KeyCardVersions    = "cardVersions"
	KeyIsLoading       = "isLoading"
	KeyError           = "error"
)
