package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// CardType classifies the kind of work a card tracks.
type CardType string

const (
	CardTypeFeature CardType = "feature"
	CardTypeBug     CardType = "bug"
	CardTypeTask    CardType = "task"
	CardTypeStory   CardType = "story"
)

// Priority ranks cards within a lane.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Defaults applied to cards created without an explicit type or priority.
const (
	DefaultCardType = CardTypeTask
	DefaultPriority = PriorityMedium
)

// CardData holds every Card field except its identity.
// It is also the payload of a CardVersion snapshot.
type CardData struct {
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        CardType  `json:"type"`
	Priority    Priority  `json:"priority"`
	DueDate     *string   `json:"dueDate"` // YYYY-MM-DD
	Labels      []Label   `json:"labels"`
	Assignee    *string   `json:"assignee"`
	LaneID      string    `json:"laneId"`
	Order       int       `json:"order"` // advisory; Lane.CardIDs is authoritative
	IsDeleted   bool      `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Card is a unit of work owned by the project referenced by ProjectID.
type Card struct {
	ID string `json:"id"`
	CardData
}

// Snapshot returns a deep copy of the card's data, safe to store in history.
func (c Card) Snapshot() CardData {
	d := c.CardData
	d.Labels = slices.Clone(c.Labels)
	d.DueDate = clonePtr(c.DueDate)
	d.Assignee = clonePtr(c.Assignee)
	return d
}

// CardVersion is an immutable pre-mutation snapshot of a card.
type CardVersion struct {
	ID        string    `json:"id"`
	CardID    string    `json:"cardId"`
	Version   int       `json:"version"`
	Data      CardData  `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// CardInput carries the user-supplied fields of a new card.
type CardInput struct {
	LaneID      string   `json:"laneId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        CardType `json:"type,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	DueDate     *string  `json:"dueDate,omitempty"`
	Labels      []Label  `json:"labels,omitempty"`
	Assignee    *string  `json:"assignee,omitempty"`
}

// CardPatch is a shallow-merge update. Nil fields are left untouched.
// Structural fields (lane, project, deletion) change only through their own actions.
type CardPatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Type        *CardType        `json:"type,omitempty"`
	Priority    *Priority        `json:"priority,omitempty"`
	DueDate     Nullable[string] `json:"dueDate,omitzero"`
	Labels      *[]Label         `json:"labels,omitempty"`
	Assignee    Nullable[string] `json:"assignee,omitzero"`
}

// IsEmpty reports whether the patch would change nothing.
func (p CardPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Type == nil && p.Priority == nil &&
		!p.DueDate.Set && p.Labels == nil && !p.Assignee.Set
}

// Apply merges the patch onto data and returns the result.
func (p CardPatch) Apply(data CardData) CardData {
	if p.Title != nil {
		data.Title = *p.Title
	}
	if p.Description != nil {
		data.Description = *p.Description
	}
	if p.Type != nil {
		data.Type = *p.Type
	}
	if p.Priority != nil {
		data.Priority = *p.Priority
	}
	if p.DueDate.Set {
		data.DueDate = clonePtr(p.DueDate.Value)
	}
	if p.Labels != nil {
		data.Labels = slices.Clone(*p.Labels)
		if data.Labels == nil {
			data.Labels = []Label{}
		}
	}
	if p.Assignee.Set {
		data.Assignee = clonePtr(p.Assignee.Value)
	}
	return data
}

// Nullable distinguishes an absent patch field from an explicit null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a Nullable that clears the field.
func Null[T any]() Nullable[T] { return Nullable[T]{Set: true} }

// Some returns a Nullable that sets the field to v.
func Some[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Value: &v} }

// IsZero lets omitzero drop unset fields when encoding.
func (n Nullable[T]) IsZero() bool { return !n.Set }

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
