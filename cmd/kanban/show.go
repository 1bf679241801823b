package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/internal/presentation/graph"
	"github.com/aretw0/kanban/internal/presentation/markdown"
	"github.com/aretw0/kanban/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newShowCmd() *cobra.Command {
	var (
		project, format string
		urgent          bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display a project's board",
		Long: `Renders the active project (or --project) as markdown, a Mermaid kanban
diagram or JSON. Markdown is styled with glamour when stdout is a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, func(board *kanban.Board) error {
				projectID := ""
				if project != "" {
					p, err := resolveProject(board, project)
					if err != nil {
						return err
					}
					projectID = p.ID
				}
				v, ok := presentation.Build(board.State(), projectID)
				if !ok {
					return fmt.Errorf("no project to show")
				}
				if urgent {
					for _, l := range v.Lanes {
						presentation.SortByUrgency(l.Cards)
					}
				}
				return writeView(cmd.OutOrStdout(), format, v)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&project, "project", "P", "", "Project id or title (default: active project)")
	f.StringVarP(&format, "format", "f", "markdown", "Output format: markdown, raw, mermaid or json")
	f.BoolVar(&urgent, "urgent", false, "Sort each lane by priority, then due date")
	return cmd
}

func writeView(w io.Writer, format string, v presentation.BoardView) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "mermaid":
		_, err := io.WriteString(w, graph.GenerateMermaid(v))
		return err
	case "raw":
		_, err := io.WriteString(w, markdown.Render(v))
		return err
	case "markdown", "md":
		render, err := markdownRenderer(w)
		if err != nil {
			return err
		}
		out, err := render(markdown.Render(v))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want markdown, raw, mermaid or json)", format)
	}
}

// markdownRenderer picks a styled renderer for terminals and a plain one otherwise.
func markdownRenderer(w io.Writer) (func(string) (string, error), error) {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			width = 0
		}
		return tui.NewRenderer(width)
	}
	return tui.NewPlainRenderer()
}
