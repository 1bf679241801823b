// Package normalize upgrades persisted board documents of any schema version
// into the current domain.BoardState shape.
//
// Normalization is best-effort and never fails: entries that cannot be
// decoded are skipped, missing fields receive defaults, and the legacy
// single-project layout is lifted into the multi-project one.
package normalize

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/aretw0/kanban/internal/dto"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/google/uuid"
)

// LegacyProjectID is assigned to a single-board project that carried no id.
const LegacyProjectID = "default"

type normalizer struct {
	newID func() string
	now   func() time.Time
}

// Option configures normalization.
type Option func(*normalizer)

// WithIDGenerator sets the id source for projects and lanes that lack one.
func WithIDGenerator(newID func() string) Option {
	return func(n *normalizer) {
		if newID != nil {
			n.newID = newID
		}
	}
}

// WithClock sets the time used for missing project timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// Decode parses a persisted JSON document and normalizes it.
// Only malformed JSON is an error.
func Decode(data []byte, opts ...Option) (*domain.BoardState, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return Normalize(raw, opts...), nil
}

// Normalize reconciles raw into a BoardState.
//
// raw is usually the generic map produced by json.Unmarshal; a *domain.BoardState
// or encoded JSON are accepted too. Input with neither a "projects" nor a
// "project" key yields a state with no projects, which callers treat as empty.
func Normalize(raw any, opts ...Option) *domain.BoardState {
	n := &normalizer{newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}

	doc := asDocument(raw)
	state := &domain.BoardState{
		Projects:     []domain.Project{},
		Cards:        map[string]domain.Card{},
		CardVersions: map[string][]domain.CardVersion{},
	}
	if doc == nil {
		return state
	}

	var fallbackProjectID *string
	if projects, ok := doc[dto.KeyProjects]; ok {
		state.Projects = n.projects(projects)
		state.ActiveProjectID = resolveActive(doc[dto.KeyActiveProjectID], state.Projects)
		fallbackProjectID = state.ActiveProjectID
	} else if legacy, ok := doc[dto.KeyProject]; ok {
		p, ok := n.legacyProject(legacy)
		if ok {
			state.Projects = []domain.Project{p}
			state.ActiveProjectID = domain.Ptr(p.ID)
			fallbackProjectID = state.ActiveProjectID
		}
	}

	state.Cards = cards(doc[dto.KeyCards], fallbackProjectID)
	state.CardVersions = versions(doc[dto.KeyCardVersions], fallbackProjectID)

	if v, ok := doc[dto.KeyIsLoading].(bool); ok {
		state.IsLoading = v
	}
	if v, ok := doc[dto.KeyError].(string); ok {
		state.Error = domain.Ptr(v)
	}

	reconcileLanes(state)
	return state
}

// asDocument turns the accepted input forms into a generic JSON object.
func asDocument(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case []byte:
		return unmarshalObject(v)
	case json.RawMessage:
		return unmarshalObject(v)
	case string:
		return unmarshalObject([]byte(v))
	case nil:
		return nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return unmarshalObject(b)
	}
}

func unmarshalObject(b []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

func (n *normalizer) projects(raw any) []domain.Project {
	items, _ := raw.([]any)
	out := make([]domain.Project, 0, len(items))
	seen := map[string]bool{}
	for _, item := range items {
		var pd dto.ProjectDocument
		if err := decode(item, &pd); err != nil {
			continue
		}
		p := n.fillProject(pd.Project())
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func (n *normalizer) legacyProject(raw any) (domain.Project, bool) {
	var pd dto.ProjectDocument
	if err := decode(raw, &pd); err != nil {
		return domain.Project{}, false
	}
	p := pd.Project()
	if p.ID == "" {
		p.ID = LegacyProjectID
	}
	return n.fillProject(p), true
}

// fillProject supplies defaults for everything a project must carry.
func (n *normalizer) fillProject(p domain.Project) domain.Project {
	if p.ID == "" {
		p.ID = n.newID()
	}
	if p.Title == "" {
		p.Title = domain.DefaultProjectTitle
	}
	now := n.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	lanes := make([]domain.Lane, 0, len(p.Lanes))
	seen := map[string]bool{}
	for _, l := range p.Lanes {
		if l.ID == "" {
			l.ID = n.newID()
		}
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		if l.CardIDs == nil {
			l.CardIDs = []string{}
		}
		lanes = append(lanes, l)
	}
	if len(lanes) == 0 {
		lanes = domain.DefaultLanes(n.newID)
	}
	p.Lanes = lanes
	return p
}

func resolveActive(raw any, projects []domain.Project) *string {
	if id, ok := raw.(string); ok {
		if slices.ContainsFunc(projects, func(p domain.Project) bool { return p.ID == id }) {
			return domain.Ptr(id)
		}
	}
	if len(projects) > 0 {
		return domain.Ptr(projects[0].ID)
	}
	return nil
}

func cards(raw any, fallbackProjectID *string) map[string]domain.Card {
	entries, _ := raw.(map[string]any)
	out := make(map[string]domain.Card, len(entries))
	for key, entry := range entries {
		var c domain.Card
		if err := decode(entry, &c); err != nil {
			continue
		}
		if c.ID == "" {
			c.ID = key
		}
		c.CardData = fillCardData(c.CardData, fallbackProjectID)
		out[c.ID] = c
	}
	return out
}

func versions(raw any, fallbackProjectID *string) map[string][]domain.CardVersion {
	entries, _ := raw.(map[string]any)
	out := make(map[string][]domain.CardVersion, len(entries))
	for cardID, entry := range entries {
		items, _ := entry.([]any)
		history := make([]domain.CardVersion, 0, len(items))
		for _, item := range items {
			var v domain.CardVersion
			if err := decode(item, &v); err != nil {
				continue
			}
			if v.CardID == "" {
				v.CardID = cardID
			}
			v.Data = fillCardData(v.Data, fallbackProjectID)
			history = append(history, v)
		}
		if len(history) == 0 {
			continue
		}
		slices.SortStableFunc(history, func(a, b domain.CardVersion) int { return a.Version - b.Version })
		out[cardID] = history
	}
	return out
}

func fillCardData(d domain.CardData, fallbackProjectID *string) domain.CardData {
	if d.ProjectID == "" && fallbackProjectID != nil {
		d.ProjectID = *fallbackProjectID
	}
	if t, err := domain.ParseCardType(string(d.Type)); err == nil {
		d.Type = t
	} else {
		d.Type = domain.DefaultCardType
	}
	if p, err := domain.ParsePriority(string(d.Priority)); err == nil {
		d.Priority = p
	} else {
		d.Priority = domain.DefaultPriority
	}
	if d.DueDate != nil {
		d.DueDate = normalizeDate(*d.DueDate)
	}
	if d.Labels == nil {
		d.Labels = []domain.Label{}
	}
	return d
}

// normalizeDate keeps the calendar date of a YYYY-MM-DD or timestamp value.
func normalizeDate(v string) *string {
	if len(v) >= len(domain.DateLayout) {
		if day, err := domain.ParseDueDate(v[:len(domain.DateLayout)]); err == nil {
			return day
		}
	}
	return nil
}
