package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/spf13/cobra"
)

// withBoard opens the configured board, runs fn and saves on the way out.
func withBoard(cmd *cobra.Command, fn func(*kanban.Board) error) error {
	board, release, err := openBoard(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer release()
	return fn(board)
}

// applied turns a verb's result into an error when it changed nothing or was
// rejected. A rejection leaves an error on the board, which is cleared again.
func applied(board *kanban.Board, prevErr string, changed bool, noop string) error {
	if msg, ok := board.Error(); ok && msg != prevErr {
		board.ClearError()
		return errors.New(msg)
	}
	if !changed {
		return errors.New(noop)
	}
	return nil
}

// run executes a verb and reports a no-op or rejection as an error.
func run(board *kanban.Board, noop string, verb func() bool) error {
	prev, _ := board.Error()
	return applied(board, prev, verb(), noop)
}

// resolveCard matches an exact card id or a unique id prefix.
func resolveCard(board *kanban.Board, ref string) (domain.Card, error) {
	ref = strings.TrimSpace(ref)
	if c, ok := board.Card(ref); ok {
		return c, nil
	}
	var found []domain.Card
	for id, c := range board.State().Cards {
		if ref != "" && strings.HasPrefix(id, ref) {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return domain.Card{}, fmt.Errorf("card %q not found", ref)
	case 1:
		return found[0], nil
	default:
		return domain.Card{}, fmt.Errorf("card %q is ambiguous (%d matches)", ref, len(found))
	}
}

// resolveLane matches a lane of the active project by id, id prefix or
// case-insensitive title.
func resolveLane(board *kanban.Board, ref string) (domain.Lane, error) {
	p, ok := board.ActiveProject()
	if !ok {
		return domain.Lane{}, errors.New("no active project")
	}
	lanes := p.SortedLanes()
	return match(lanes, ref, "lane", func(l domain.Lane) (string, string) { return l.ID, l.Title })
}

// resolveProject matches a project by id, id prefix or case-insensitive title.
func resolveProject(board *kanban.Board, ref string) (domain.Project, error) {
	return match(board.Projects(), ref, "project", func(p domain.Project) (string, string) { return p.ID, p.Title })
}

func match[T any](items []T, ref, kind string, key func(T) (id, title string)) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%s reference is empty", kind)
	}
	for _, it := range items {
		if id, _ := key(it); id == ref {
			return it, nil
		}
	}
	var found []T
	for _, it := range items {
		id, title := key(it)
		if strings.EqualFold(title, ref) || strings.HasPrefix(id, ref) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return zero, fmt.Errorf("%s %q not found", kind, ref)
	case 1:
		return found[0], nil
	default:
		return zero, fmt.Errorf("%s %q is ambiguous (%d matches)", kind, ref, len(found))
	}
}
