package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/kanban/internal/presentation"
)

// GenerateMermaid produces a Mermaid kanban diagram from a board view.
// Card metadata goes into the @{ } block:
// - priority maps onto Mermaid's scale; medium is Mermaid's unmarked default
// - assignee becomes "assigned"
// - the card type becomes "ticket"
func GenerateMermaid(v presentation.BoardView) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", quote(v.Title))
	sb.WriteString("---\n")
	sb.WriteString("kanban\n")

	for _, lane := range v.Lanes {
		fmt.Fprintf(&sb, "  %s[%s]\n", sanitizeMermaidID(lane.ID), label(lane.Title))
		for _, c := range lane.Cards {
			meta := []string{fmt.Sprintf("ticket: '%s'", c.Type)}
			if p := mermaidPriority(string(c.Priority)); p != "" {
				meta = append(meta, fmt.Sprintf("priority: '%s'", p))
			}
			if c.Assignee != nil && *c.Assignee != "" {
				meta = append(meta, fmt.Sprintf("assigned: '%s'", strings.ReplaceAll(*c.Assignee, "'", "")))
			}
			fmt.Fprintf(&sb, "    %s[%s]@{ %s }\n", sanitizeMermaidID(c.ID), label(c.Title), strings.Join(meta, ", "))
		}
	}
	return sb.String()
}

func mermaidPriority(p string) string {
	switch p {
	case "urgent":
		return "Very High"
	case "high":
		return "High"
	case "low":
		return "Low"
	default:
		return ""
	}
}

func label(s string) string {
	s = strings.ReplaceAll(s, "[", "(")
	s = strings.ReplaceAll(s, "]", ")")
	return strings.ReplaceAll(s, "\n", " ")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return "n_" + s
}
