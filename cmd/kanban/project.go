package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var thumbnail string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a project with the default lanes and make it active",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var thumb *string
			if thumbnail != "" {
				thumb = &thumbnail
			}
			return withBoard(cmd, func(board *kanban.Board) error {
				var id string
				if err := run(board, "project was not added", func() bool {
					var changed bool
					id, changed = board.AddProject(strings.Join(args, " "), thumb)
					return changed
				}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	add.Flags().StringVar(&thumbnail, "thumbnail", "", "Thumbnail URL")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "rename <project> <title>",
			Short: "Rename a project",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					p, err := resolveProject(board, args[0])
					if err != nil {
						return err
					}
					title := strings.Join(args[1:], " ")
					return run(board, "project is unchanged", func() bool {
						return board.UpdateProject(p.ID, domain.ProjectPatch{Title: &title})
					})
				})
			},
		},
		&cobra.Command{
			Use:   "rm <project>",
			Short: "Delete a project with its cards",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					p, err := resolveProject(board, args[0])
					if err != nil {
						return err
					}
					return run(board, "project was not deleted", func() bool { return board.DeleteProject(p.ID) })
				})
			},
		},
		&cobra.Command{
			Use:   "use <project>",
			Short: "Make a project the active one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					p, err := resolveProject(board, args[0])
					if err != nil {
						return err
					}
					if a, ok := board.ActiveProject(); ok && a.ID == p.ID {
						return nil
					}
					return run(board, "project was not activated", func() bool { return board.SetActiveProject(p.ID) })
				})
			},
		},
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List projects",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					state := board.State()
					table := tablewriter.NewWriter(cmd.OutOrStdout())
					table.SetHeader([]string{"", "ID", "TITLE", "LANES", "CARDS", "DELETED"})
					for _, p := range board.Projects() {
						v, _ := presentation.Build(state, p.ID)
						marker := ""
						if v.Active {
							marker = "*"
						}
						table.Append([]string{
							marker,
							p.ID,
							p.Title,
							strconv.Itoa(len(v.Lanes)),
							strconv.Itoa(v.CardCount()),
							strconv.Itoa(v.Deleted),
						})
					}
					table.Render()
					return nil
				})
			},
		},
	)
	return cmd
}
