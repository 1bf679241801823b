/*
Package domain contains the core domain models of the kanban board.

It defines the entities the board state engine operates on (Projects, Lanes,
Cards and their version history) together with the closed set of Actions that
describe every requested state change. This package is kept pure and free of
I/O or persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - BoardState: the whole persisted board (all projects, pooled cards, histories).
  - Project: a named board owning a set of Lanes.
  - Lane: an ordered column; its CardIDs is the authoritative display order.
  - Card: a unit of work carrying metadata (priority, labels, due date, assignee).
  - CardVersion: a snapshot of a Card taken just before a mutation, used by undo.
  - Action: a request to change the board, consumed by the transition engine.
*/
package domain
