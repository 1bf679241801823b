/*
Package kanban is a kanban board state engine with pluggable persistence.

Projects hold ordered lanes, lanes hold ordered cards, and every change goes
through a pure transition function: the current board plus an action yields
the next board. Card edits keep a per-card version history so any single card
can be stepped back independently of the rest of the board.

# Usage

A Board owns one live state. Load it once, call its verbs, and it persists the
whole state after a quiet period.

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/kanban"
		"github.com/aretw0/kanban/pkg/adapters/file"
		"github.com/aretw0/kanban/pkg/domain"
	)

	func main() {
		ctx := context.Background()
		board := kanban.New(kanban.WithStore(file.New(file.DefaultPath)))
		if err := board.Load(ctx); err != nil {
			log.Fatal(err)
		}
		defer board.Close(ctx)

		project, _ := board.ActiveProject()
		todo := project.SortedLanes()[0]
		id, _ := board.AddCard(domain.CardInput{LaneID: todo.ID, Title: "Write docs"})
		board.UpdateCard(id, domain.CardPatch{Priority: domain.Ptr(domain.PriorityHigh)})
		board.UndoCard(id)
	}

# Architecture

  - pkg/domain: the data model, the Action sum type and lifecycle events.
  - internal/runtime: the transition engine.
  - pkg/normalize: turns any persisted document, including the legacy
    single-project shape, into a consistent board.
  - pkg/ports and pkg/adapters: board stores (memory, file, redis, sqlite,
    postgres, remote HTTP) and the HTTP and MCP servers.

No-ops are reported by identity: a verb returns false when its action
referenced something that does not exist. Guarded deletions (the last lane of
a project, the last project) set the board's error message instead.
*/
package kanban
