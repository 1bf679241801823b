package markdown_test

import (
	"testing"

	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/internal/presentation/markdown"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	bug, _ := domain.LabelByID("bug")
	v := presentation.BoardView{
		Title: "My_Board",
		Error: domain.MsgLastLane,
		Lanes: []presentation.LaneView{
			{ID: "l1", Title: "Todo", Cards: []domain.Card{{
				ID: "c1",
				CardData: domain.CardData{
					Title:       "Fix *login*",
					Description: "steps\nto reproduce",
					Type:        domain.CardTypeBug,
					Priority:    domain.PriorityHigh,
					DueDate:     domain.Ptr("2025-03-01"),
					Assignee:    domain.Ptr("ana"),
					Labels:      []domain.Label{bug},
				},
			}}},
			{ID: "l2", Title: "Done", Cards: []domain.Card{}},
		},
		Deleted: 2,
	}

	out := markdown.Render(v)

	assert.Contains(t, out, "# My\\_Board\n")
	assert.Contains(t, out, "> **Error:** "+domain.MsgLastLane)
	assert.Contains(t, out, "## Todo (1)\n")
	assert.Contains(t, out, "- Fix \\*login\\* `bug` · **high** · due 2025-03-01 · @ana · Bug\n")
	assert.Contains(t, out, "  > steps\n  > to reproduce\n")
	assert.Contains(t, out, "## Done (0)\n\n_empty_")
	assert.Contains(t, out, "2 deleted card(s)")
}
