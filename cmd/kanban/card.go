package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/kanban"
	"github.com/aretw0/kanban/internal/presentation"
	"github.com/aretw0/kanban/pkg/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards of the active project",
	}
	cmd.AddCommand(
		newCardAddCmd(),
		newCardEditCmd(),
		newCardMoveCmd(),
		newCardVerbCmd("rm", "Soft-delete a card", "card could not be deleted", (*kanban.Board).DeleteCard),
		newCardVerbCmd("restore", "Restore a deleted card", "card is not deleted", (*kanban.Board).RestoreCard),
		newCardVerbCmd("undo", "Revert a card to its previous version", "card has no earlier version", (*kanban.Board).UndoCard),
		newCardListCmd(),
		newCardHistoryCmd(),
	)
	return cmd
}

func newCardAddCmd() *cobra.Command {
	var (
		lane, description, typ, priority, due, assignee string
		labels                                          []string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := domain.CardInput{Title: strings.Join(args, " "), Description: description}
			var err error
			if typ != "" {
				if in.Type, err = domain.ParseCardType(typ); err != nil {
					return err
				}
			}
			if priority != "" {
				if in.Priority, err = domain.ParsePriority(priority); err != nil {
					return err
				}
			}
			if in.DueDate, err = domain.ParseDueDate(due); err != nil {
				return err
			}
			if len(labels) > 0 {
				if in.Labels, err = domain.ParseLabels(labels); err != nil {
					return err
				}
			}
			if assignee != "" {
				in.Assignee = &assignee
			}

			return withBoard(cmd, func(board *kanban.Board) error {
				if lane == "" {
					lanes := activeLanes(board)
					if len(lanes) == 0 {
						return fmt.Errorf("active project has no lanes")
					}
					in.LaneID = lanes[0].ID
				} else {
					l, err := resolveLane(board, lane)
					if err != nil {
						return err
					}
					in.LaneID = l.ID
				}
				var id string
				if err := run(board, "card was not added", func() bool {
					var changed bool
					id, changed = board.AddCard(in)
					return changed
				}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&lane, "lane", "l", "", "Lane id or title (default: first lane)")
	f.StringVarP(&description, "description", "d", "", "Card description")
	f.StringVarP(&typ, "type", "t", "", "Card type: feature, bug, task or story")
	f.StringVarP(&priority, "priority", "p", "", "Priority: low, medium, high or urgent")
	f.StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	f.StringSliceVar(&labels, "label", nil, "Label id (repeatable)")
	f.StringVarP(&assignee, "assignee", "a", "", "Assignee")
	return cmd
}

func newCardEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <card>",
		Short: "Update fields of a card",
		Long:  `Only flags given on the command line are changed. Pass an empty --due or --assignee to clear it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := cardPatchFromFlags(cmd)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}
			return withBoard(cmd, func(board *kanban.Board) error {
				c, err := resolveCard(board, args[0])
				if err != nil {
					return err
				}
				return run(board, "card is unchanged", func() bool { return board.UpdateCard(c.ID, patch) })
			})
		},
	}
	f := cmd.Flags()
	f.String("title", "", "New title")
	f.StringP("description", "d", "", "New description")
	f.StringP("type", "t", "", "Card type: feature, bug, task or story")
	f.StringP("priority", "p", "", "Priority: low, medium, high or urgent")
	f.String("due", "", "Due date (YYYY-MM-DD), empty to clear")
	f.StringSlice("label", nil, "Label id (repeatable), replaces all labels")
	f.StringP("assignee", "a", "", "Assignee, empty to clear")
	return cmd
}

// cardPatchFromFlags builds a patch from the flags the user actually set.
func cardPatchFromFlags(cmd *cobra.Command) (domain.CardPatch, error) {
	var patch domain.CardPatch
	f := cmd.Flags()
	if f.Changed("title") {
		v, _ := f.GetString("title")
		patch.Title = &v
	}
	if f.Changed("description") {
		v, _ := f.GetString("description")
		patch.Description = &v
	}
	if f.Changed("type") {
		v, _ := f.GetString("type")
		t, err := domain.ParseCardType(v)
		if err != nil {
			return patch, err
		}
		patch.Type = &t
	}
	if f.Changed("priority") {
		v, _ := f.GetString("priority")
		p, err := domain.ParsePriority(v)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if f.Changed("due") {
		v, _ := f.GetString("due")
		d, err := domain.ParseDueDate(v)
		if err != nil {
			return patch, err
		}
		if d == nil {
			patch.DueDate = domain.Null[string]()
		} else {
			patch.DueDate = domain.Some(*d)
		}
	}
	if f.Changed("label") {
		v, _ := f.GetStringSlice("label")
		labels, err := domain.ParseLabels(v)
		if err != nil {
			return patch, err
		}
		patch.Labels = &labels
	}
	if f.Changed("assignee") {
		v, _ := f.GetString("assignee")
		if v = strings.TrimSpace(v); v == "" {
			patch.Assignee = domain.Null[string]()
		} else {
			patch.Assignee = domain.Some(v)
		}
	}
	return patch, nil
}

func newCardMoveCmd() *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "move <card> <lane>",
		Short: "Move a card to a lane",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, func(board *kanban.Board) error {
				c, err := resolveCard(board, args[0])
				if err != nil {
					return err
				}
				l, err := resolveLane(board, args[1])
				if err != nil {
					return err
				}
				to := index
				if to < 0 {
					to = len(board.CardsByLane(l.ID))
				}
				return run(board, "card was not moved", func() bool { return board.MoveCard(c.ID, l.ID, to) })
			})
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", -1, "Position in the target lane (default: end)")
	return cmd
}

func newCardVerbCmd(use, short, noop string, verb func(*kanban.Board, string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <card>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, func(board *kanban.Board) error {
				c, err := resolveCard(board, args[0])
				if err != nil {
					return err
				}
				return run(board, noop, func() bool { return verb(board, c.ID) })
			})
		},
	}
}

func newCardListCmd() *cobra.Command {
	var (
		lane, output string
		deleted      bool
		urgent       bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cards of the active project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, func(board *kanban.Board) error {
				p, ok := board.ActiveProject()
				if !ok {
					return fmt.Errorf("no active project")
				}
				var cards []domain.Card
				switch {
				case deleted:
					cards = board.DeletedCards(p.ID)
				case lane != "":
					l, err := resolveLane(board, lane)
					if err != nil {
						return err
					}
					cards = board.CardsByLane(l.ID)
				default:
					for _, l := range p.SortedLanes() {
						cards = append(cards, board.CardsByLane(l.ID)...)
					}
				}
				if urgent {
					presentation.SortByUrgency(cards)
				}
				return writeCards(cmd.OutOrStdout(), output, p, cards)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&lane, "lane", "l", "", "Only cards of this lane")
	f.BoolVar(&deleted, "deleted", false, "List soft-deleted cards instead")
	f.BoolVar(&urgent, "urgent", false, "Sort by priority, then due date")
	f.StringVarP(&output, "output", "o", "table", "Output format: table or json")
	return cmd
}

func writeCards(w io.Writer, output string, p domain.Project, cards []domain.Card) error {
	if strings.ToLower(strings.TrimSpace(output)) == "json" {
		if cards == nil {
			cards = []domain.Card{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "LANE", "TITLE", "TYPE", "PRIORITY", "DUE", "LABELS", "ASSIGNEE"})
	table.SetAutoWrapText(false)
	for _, c := range cards {
		laneTitle := c.LaneID
		if l, ok := p.Lane(c.LaneID); ok {
			laneTitle = l.Title
		}
		table.Append([]string{
			c.ID,
			laneTitle,
			c.Title,
			string(c.Type),
			string(c.Priority),
			deref(c.DueDate),
			presentation.LabelNames(c.Labels),
			deref(c.Assignee),
		})
	}
	table.Render()
	return nil
}

func newCardHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <card>",
		Short: "Show the recorded versions of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoard(cmd, func(board *kanban.Board) error {
				c, err := resolveCard(board, args[0])
				if err != nil {
					return err
				}
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"VERSION", "TIME", "TITLE", "LANE", "PRIORITY", "DELETED"})
				for _, v := range board.History(c.ID) {
					table.Append([]string{
						strconv.Itoa(v.Version),
						v.Timestamp.Format(time.RFC3339),
						v.Data.Title,
						v.Data.LaneID,
						string(v.Data.Priority),
						strconv.FormatBool(v.Data.IsDeleted),
					})
				}
				table.Render()
				return nil
			})
		},
	}
}

func activeLanes(board *kanban.Board) []domain.Lane {
	p, ok := board.ActiveProject()
	if !ok {
		return nil
	}
	return p.SortedLanes()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
