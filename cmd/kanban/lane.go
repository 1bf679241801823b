package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/kanban"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newLaneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lane",
		Short: "Manage lanes of the active project",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <title>",
			Short: "Append a lane",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					var id string
					if err := run(board, "lane was not added", func() bool {
						var changed bool
						id, changed = board.AddLane(strings.Join(args, " "))
						return changed
					}); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "rename <lane> <title>",
			Short: "Rename a lane",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					l, err := resolveLane(board, args[0])
					if err != nil {
						return err
					}
					title := strings.Join(args[1:], " ")
					return run(board, "lane is unchanged", func() bool { return board.RenameLane(l.ID, title) })
				})
			},
		},
		&cobra.Command{
			Use:   "rm <lane>",
			Short: "Delete a lane, moving its cards to the first remaining lane",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					l, err := resolveLane(board, args[0])
					if err != nil {
						return err
					}
					return run(board, "lane was not deleted", func() bool { return board.DeleteLane(l.ID) })
				})
			},
		},
		&cobra.Command{
			Use:   "reorder <lane>...",
			Short: "Set the lane order of the active project",
			Long:  `Every lane of the active project must be listed exactly once.`,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					ids := make([]string, 0, len(args))
					for _, ref := range args {
						l, err := resolveLane(board, ref)
						if err != nil {
							return err
						}
						ids = append(ids, l.ID)
					}
					return run(board, "lane order is unchanged or incomplete", func() bool { return board.ReorderLanes(ids) })
				})
			},
		},
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List lanes of the active project",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withBoard(cmd, func(board *kanban.Board) error {
					table := tablewriter.NewWriter(cmd.OutOrStdout())
					table.SetHeader([]string{"ORDER", "ID", "TITLE", "CARDS"})
					for _, l := range activeLanes(board) {
						table.Append([]string{
							strconv.Itoa(l.Order),
							l.ID,
							l.Title,
							strconv.Itoa(len(board.CardsByLane(l.ID))),
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
