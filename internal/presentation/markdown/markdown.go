// Package markdown renders board views as Markdown documents.
package markdown

import (
	"fmt"
	"strings"

	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/pkg/domain"
)

// Render writes one heading per lane and one bullet per card.
func Render(v presentation.BoardView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escape(v.Title))
	if v.Error != "" {
		fmt.Fprintf(&sb, "> **Error:** %s\n\n", escape(v.Error))
	}

	for _, lane := range v.Lanes {
		fmt.Fprintf(&sb, "## %s (%d)\n\n", escape(lane.Title), len(lane.Cards))
		if len(lane.Cards) == 0 {
			sb.WriteString("_empty_\n\n")
			continue
		}
		for _, c := range lane.Cards {
			sb.WriteString(cardLine(c))
		}
		sb.WriteString("\n")
	}

	if v.Deleted > 0 {
		fmt.Fprintf(&sb, "---\n\n%d deleted card(s) can be restored.\n", v.Deleted)
	}
	return sb.String()
}

func cardLine(c domain.Card) string {
	var meta []string
	meta = append(meta, "`"+string(c.Type)+"`", "**"+string(c.Priority)+"**")
	if c.DueDate != nil {
		meta = append(meta, "due "+*c.DueDate)
	}
	if c.Assignee != nil && *c.Assignee != "" {
		meta = append(meta, "@"+*c.Assignee)
	}
	if len(c.Labels) > 0 {
		meta = append(meta, presentation.LabelNames(c.Labels))
	}

	line := fmt.Sprintf("- %s %s\n", escape(c.Title), strings.Join(meta, " · "))
	if c.Description != "" {
		for _, l := range strings.Split(strings.TrimSpace(c.Description), "\n") {
			line += "  > " + l + "\n"
		}
	}
	return line
}

var escaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escape(s string) string {
	return escaper.Replace(s)
}
