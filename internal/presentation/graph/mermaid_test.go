package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/internal/presentation/graph"
	"github.com/aretw0/kanban/pkg/domain"
)

func card(id, title string, p domain.Priority) domain.Card {
	return domain.Card{ID: id, CardData: domain.CardData{Title: title, Type: domain.CardTypeBug, Priority: p}}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		view     presentation.BoardView
		contains []string
		excludes []string
	}{
		{
			name: "Lanes And Cards",
			view: presentation.BoardView{
				Title: "Roadmap",
				Lanes: []presentation.LaneView{
					{ID: "lane-1", Title: "Todo", Cards: []domain.Card{card("c.1", "Fix [login]", domain.PriorityUrgent)}},
					{ID: "lane-2", Title: "Done"},
				},
			},
			contains: []string{
				"title: \"Roadmap\"",
				"kanban\n",
				"  n_lane_1[Todo]\n",
				"    n_c_1[Fix (login)]@{ ticket: 'bug', priority: 'Very High' }\n",
				"  n_lane_2[Done]\n",
			},
		},
		{
			name: "Medium Priority Is Unmarked",
			view: presentation.BoardView{
				Lanes: []presentation.LaneView{
					{ID: "l", Title: "L", Cards: []domain.Card{card("c", "T", domain.PriorityMedium)}},
				},
			},
			contains: []string{"n_c[T]@{ ticket: 'bug' }"},
			excludes: []string{"priority:"},
		},
		{
			name: "Assignee",
			view: presentation.BoardView{
				Lanes: []presentation.LaneView{{ID: "l", Title: "L", Cards: []domain.Card{func() domain.Card {
					c := card("c", "T", domain.PriorityLow)
					c.Assignee = domain.Ptr("o'neil")
					return c
				}()}}},
			},
			contains: []string{"priority: 'Low', assigned: 'oneil'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.view)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() missing %q\nGot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() should not contain %q\nGot:\n%s", unwanted, got)
				}
			}
		})
	}
}
