package domain

import "errors"

// ErrBoardNotFound is returned by a store that has nothing persisted yet.
var ErrBoardNotFound = errors.New("board not found")

// ErrNotLoaded is returned when the board is used before its initial load completed.
var ErrNotLoaded = errors.New("board not loaded")

// ErrUnknownAction is returned when decoding an action with an unrecognized type.
var ErrUnknownAction = errors.New("unknown action")

// Input validation errors raised at the edges (CLI, MCP). The engine never returns errors.
var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidCardType = errors.New("invalid card type")
	ErrInvalidDueDate  = errors.New("invalid due date")
	ErrUnknownLabel    = errors.New("unknown label")
)

// User-visible messages set on BoardState.Error by guarded deletions.
const (
	MsgLastLane    = "Cannot delete the last lane of a project"
	MsgLastProject = "Cannot delete the last project"
)
