package kanban_test

import (
	"context"
	"fmt"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/runtime"
	"github.com/aretw0/kanban/pkg/domain"
)

// ExampleBoard shows the basic verb cycle on an in-memory board.
func ExampleBoard() {
	ctx := context.Background()
	board := kanban.New(kanban.WithIDGenerator(runtime.NewSequenceGenerator("ex")))
	_ = board.Load(ctx)
	defer board.Close(ctx)

	project, _ := board.ActiveProject()
	lanes := project.SortedLanes()

	id, _ := board.AddCard(domain.CardInput{LaneID: lanes[0].ID, Title: "Write docs"})
	board.MoveCard(id, lanes[1].ID, 0)
	fmt.Println(len(board.CardsByLane(lanes[1].ID)), board.CanUndo(id))

	board.UndoCard(id)
	fmt.Println(len(board.CardsByLane(lanes[0].ID)), board.CanUndo(id))
	// Output:
	// 1 true
	// 1 false
}
