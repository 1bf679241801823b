package domain

// Label is an immutable tag drawn from a fixed catalog.
// Cards hold labels by value, not by reference.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // Hex color code (e.g., "#ef4444")
}

var labelCatalog = []Label{
	{ID: "bug", Name: "Bug", Color: "#ef4444"},
	{ID: "feature", Name: "Feature", Color: "#3b82f6"},
	{ID: "enhancement", Name: "Enhancement", Color: "#8b5cf6"},
	{ID: "documentation", Name: "Documentation", Color: "#10b981"},
	{ID: "urgent", Name: "Urgent", Color: "#f97316"},
	{ID: "design", Name: "Design", Color: "#ec4899"},
}

// Labels returns a copy of the label catalog.
func Labels() []Label {
	out := make([]Label, len(labelCatalog))
	copy(out, labelCatalog)
	return out
}

// LabelByID looks a label up in the catalog.
func LabelByID(id string) (Label, bool) {
	for _, l := range labelCatalog {
		if l.ID == id {
			return l, true
		}
	}
	return Label{}, false
}
